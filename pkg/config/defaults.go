package config

import (
	"strings"
	"time"

	"helios-labs/prism/pkg/resilience"
)

// Default values for configuration fields.
const (
	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	// Metrics defaults
	DefaultMetricsNamespace = "prism"

	// Tracing defaults
	DefaultTracingServiceName = "prism"
	DefaultTracingSampleRate  = 1.0

	// Usage defaults
	DefaultUsageSchedule = "0 * * * *"

	// Health defaults
	DefaultHealthInterval = 30 * time.Second

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:9090"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Resilience defaults, shared with the resilience package so the two
	// never drift.
	DefaultMaxRetries       = resilience.DefaultMaxRetries
	DefaultRetryDelay       = resilience.DefaultInitialDelay
	DefaultFailureThreshold = resilience.DefaultFailureThreshold
	DefaultResetTimeout     = resilience.DefaultResetTimeout

	// Provider defaults
	DefaultProviderTimeout = 60 * time.Second
)

// Default returns a fully-populated configuration. Load unmarshals the YAML
// document on top of this value, so absent keys keep their defaults and an
// explicit "enabled: false" survives. Code building a Config by hand should
// start from Default too.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
		Tracing: TracingConfig{
			ServiceName: DefaultTracingServiceName,
			SampleRate:  DefaultTracingSampleRate,
		},
		Usage: UsageConfig{
			Enabled:        true,
			ReportSchedule: DefaultUsageSchedule,
		},
		Health: HealthConfig{
			Enabled:  true,
			Interval: DefaultHealthInterval,
		},
		Server: ServerConfig{
			Listen:          DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Resilience: ResilienceConfig{
			MaxRetries:       DefaultMaxRetries,
			RetryDelay:       DefaultRetryDelay,
			FailureThreshold: DefaultFailureThreshold,
			ResetTimeout:     DefaultResetTimeout,
		},
	}
}

// ApplyDefaults fills zero-valued fields with defaults. Booleans are not
// touched here; their defaults come from Default, which Load starts from.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.SampleRate == 0 {
		cfg.Tracing.SampleRate = DefaultTracingSampleRate
	}

	if cfg.Usage.ReportSchedule == "" {
		cfg.Usage.ReportSchedule = DefaultUsageSchedule
	}

	if cfg.Health.Interval == 0 {
		cfg.Health.Interval = DefaultHealthInterval
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Resilience.MaxRetries == 0 {
		cfg.Resilience.MaxRetries = DefaultMaxRetries
	}
	if cfg.Resilience.RetryDelay == 0 {
		cfg.Resilience.RetryDelay = DefaultRetryDelay
	}
	if cfg.Resilience.FailureThreshold == 0 {
		cfg.Resilience.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.Resilience.ResetTimeout == 0 {
		cfg.Resilience.ResetTimeout = DefaultResetTimeout
	}

	// Provider defaults, applied to each entry in place.
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.Type == "" {
			p.Type = inferType(p.Name)
		}
		if p.Timeout == 0 {
			p.Timeout = DefaultProviderTimeout
		}
	}
}

// inferType maps well-known provider names to their wire protocol. Anything
// else needs an explicit type, which validation enforces.
func inferType(name string) string {
	switch strings.ToLower(name) {
	case "openai", "anthropic", "openrouter", "gemini":
		return strings.ToLower(name)
	default:
		return ""
	}
}
