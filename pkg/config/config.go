package config

import (
	"strings"
	"time"

	"helios-labs/prism/pkg/resilience"
)

// Config is the root configuration structure for Prism. It covers the
// telemetry stack, the shared resilience defaults, the provider credential
// templates the registry constructs adapters from, and the alias table.
type Config struct {
	// Logging configures the process-wide structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metric collection.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configures OpenTelemetry span export.
	Tracing TracingConfig `yaml:"tracing"`

	// Usage configures the scheduled usage reporter.
	Usage UsageConfig `yaml:"usage"`

	// Health configures the background health checkers.
	Health HealthConfig `yaml:"health"`

	// Server configures the telemetry HTTP server run by "prism serve".
	Server ServerConfig `yaml:"server"`

	// Resilience holds the retry and circuit-breaker defaults applied to
	// every provider that does not override them.
	Resilience ResilienceConfig `yaml:"resilience"`

	// Providers lists the credential templates, one per upstream provider.
	// The registry constructs adapters for composite ids ("provider/model")
	// from the matching template.
	Providers []ProviderConfig `yaml:"providers"`

	// Aliases maps short names to composite model ids, registered eagerly
	// at startup (e.g. "claude" -> "anthropic/claude-3.5-sonnet").
	Aliases []AliasConfig `yaml:"aliases"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig controls Prometheus metric collection.
type MetricsConfig struct {
	// Enabled controls whether adapter metrics are collected and exported.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "prism"
	Namespace string `yaml:"namespace"`
}

// TracingConfig controls OpenTelemetry span export over OTLP/gRPC.
type TracingConfig struct {
	// Enabled turns span export on. When false no collector connection is
	// made and all spans are no-ops.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address, host:port.
	// Required when Enabled is true.
	Endpoint string `yaml:"endpoint"`

	// ServiceName identifies this process in exported traces.
	// Default: "prism"
	ServiceName string `yaml:"service_name"`

	// SampleRate is the fraction of traces to sample, 0.0 to 1.0.
	// Default: 1.0
	SampleRate float64 `yaml:"sample_rate"`

	// Insecure disables TLS on the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`
}

// UsageConfig controls the scheduled usage reporter.
type UsageConfig struct {
	// Enabled controls whether usage snapshots are logged on a schedule.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ReportSchedule is a standard five-field cron expression.
	// Default: "0 * * * *" (hourly)
	ReportSchedule string `yaml:"report_schedule"`
}

// HealthConfig controls the background health checkers started for each
// constructed adapter.
type HealthConfig struct {
	// Enabled controls whether background probing runs at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Interval is the time between health probes per adapter.
	// Default: 30s
	Interval time.Duration `yaml:"interval"`
}

// ServerConfig configures the telemetry HTTP server.
type ServerConfig struct {
	// Listen is the address and port to listen on, "host:port".
	// Default: "127.0.0.1:9090"
	Listen string `yaml:"listen"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out a response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown; in-flight requests past it
	// are dropped.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ResilienceConfig holds retry and circuit-breaker settings. The top-level
// section supplies defaults; each provider may override individual fields.
// A zero field means "unset" and falls back to the level below it, so to
// disable retries entirely set max_retries to -1.
type ResilienceConfig struct {
	// MaxRetries is the retry budget per call (attempts = MaxRetries+1).
	// -1 disables retries.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay seeds the exponential backoff schedule (1x, 2x, 4x, ...).
	// Default: 1s
	RetryDelay time.Duration `yaml:"retry_delay"`

	// RetryableErrors lists the transient classes worth retrying. Valid
	// entries: "rate_limit", "timeout", "network_reset", "server_error".
	// Empty means all of them.
	RetryableErrors []string `yaml:"retryable_errors"`

	// FailureThreshold trips the circuit breaker after this many
	// consecutive failed call sequences.
	// Default: 5
	FailureThreshold int `yaml:"failure_threshold"`

	// ResetTimeout is how long a tripped breaker stays open before it
	// admits a probe request.
	// Default: 60s
	ResetTimeout time.Duration `yaml:"reset_timeout"`
}

// RetryableTags converts RetryableErrors into resilience tags. Entries that
// do not name a known tag are dropped; Validate reports them as errors, so
// after a successful load this is lossless. A nil result means the full
// transient set applies.
func (r ResilienceConfig) RetryableTags() []resilience.Tag {
	if len(r.RetryableErrors) == 0 {
		return nil
	}
	tags := make([]resilience.Tag, 0, len(r.RetryableErrors))
	for _, s := range r.RetryableErrors {
		tag, err := resilience.ParseTag(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// MergeResilience overlays override onto base. Non-zero override fields win;
// zero fields keep the base value. The result is what a provider actually
// runs with.
func MergeResilience(base, override ResilienceConfig) ResilienceConfig {
	merged := base
	if override.MaxRetries != 0 {
		merged.MaxRetries = override.MaxRetries
	}
	if override.RetryDelay != 0 {
		merged.RetryDelay = override.RetryDelay
	}
	if len(override.RetryableErrors) > 0 {
		merged.RetryableErrors = override.RetryableErrors
	}
	if override.FailureThreshold != 0 {
		merged.FailureThreshold = override.FailureThreshold
	}
	if override.ResetTimeout != 0 {
		merged.ResetTimeout = override.ResetTimeout
	}
	return merged
}

// ProviderConfig is the credential template for one upstream provider.
type ProviderConfig struct {
	// Name identifies the provider and is the first segment of composite
	// ids ("anthropic" in "anthropic/claude-3.5-sonnet"). Matching is
	// case-insensitive.
	Name string `yaml:"name"`

	// Type selects the wire protocol: "openai", "anthropic", "openrouter"
	// or "gemini". When empty and Name is one of those values, Name is
	// used as the type.
	Type string `yaml:"type"`

	// APIKey authenticates requests. Required for every type except
	// "gemini" (the placeholder never issues requests). Typically supplied
	// via PRISM_PROVIDERS_<NAME>_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `yaml:"base_url"`

	// DefaultModel is used when the provider is addressed by bare name
	// rather than by composite id.
	DefaultModel string `yaml:"default_model"`

	// MaxTokens is the default completion budget per request. Zero lets
	// the adapter pick its protocol default.
	MaxTokens int `yaml:"max_tokens"`

	// ContextWindow is the model's advertised context size in tokens.
	// Informational; surfaced by "prism models".
	ContextWindow int `yaml:"context_window"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature"`

	// Timeout bounds each HTTP attempt.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// Headers are extra headers sent on every request to this provider.
	Headers map[string]string `yaml:"headers"`

	// Resilience overrides the top-level resilience defaults for this
	// provider. Zero fields inherit.
	Resilience ResilienceConfig `yaml:"resilience"`
}

// AliasConfig maps a short name to a composite model id.
type AliasConfig struct {
	// Name is the alias, looked up case-insensitively ("claude").
	Name string `yaml:"name"`

	// Model is the composite id the alias resolves to
	// ("anthropic/claude-3.5-sonnet").
	Model string `yaml:"model"`
}

// Provider returns the credential template whose name matches name,
// case-insensitively.
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return ProviderConfig{}, false
}
