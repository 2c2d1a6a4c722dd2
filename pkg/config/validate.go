package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"helios-labs/prism/pkg/resilience"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// Missing API keys are not validation errors: keys routinely arrive through
// the environment, and the registry reports adapters it cannot construct as
// absent rather than failing.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateTracing(&cfg.Tracing)...)
	errs = append(errs, validateUsage(&cfg.Usage)...)
	errs = append(errs, validateHealth(&cfg.Health)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateResilience("resilience", &cfg.Resilience)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateAliases(cfg.Aliases, cfg.Providers)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q: must be one of debug, info, warn, error", cfg.Level),
		})
	}

	switch cfg.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q: must be 'json' or 'text'", cfg.Format),
		})
	}

	return errs
}

// validateMetrics validates metrics configuration.
func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	if cfg.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "metrics.namespace",
			Message: "namespace is required",
		})
	} else if !validMetricNamespace(cfg.Namespace) {
		errs = append(errs, FieldError{
			Field:   "metrics.namespace",
			Message: fmt.Sprintf("invalid namespace %q: must match [a-zA-Z_][a-zA-Z0-9_]*", cfg.Namespace),
		})
	}

	return errs
}

// validMetricNamespace reports whether s is a legal Prometheus name prefix.
func validMetricNamespace(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// validateTracing validates tracing configuration.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		errs = append(errs, FieldError{
			Field:   "tracing.sample_rate",
			Message: fmt.Sprintf("sample rate %v out of range: must be between 0.0 and 1.0", cfg.SampleRate),
		})
	}

	return errs
}

// validateUsage validates usage reporter configuration.
func validateUsage(cfg *UsageConfig) []FieldError {
	var errs []FieldError

	if cfg.ReportSchedule != "" {
		if _, err := cron.ParseStandard(cfg.ReportSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "usage.report_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.ReportSchedule, err),
			})
		}
	} else if cfg.Enabled {
		errs = append(errs, FieldError{
			Field:   "usage.report_schedule",
			Message: "report schedule is required when usage reporting is enabled",
		})
	}

	return errs
}

// validateHealth validates health checker configuration.
func validateHealth(cfg *HealthConfig) []FieldError {
	var errs []FieldError

	if cfg.Interval < 0 {
		errs = append(errs, FieldError{
			Field:   "health.interval",
			Message: "interval must be positive",
		})
	}

	return errs
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.Listen == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	return errs
}

// validateResilience validates a resilience section. prefix is the dotted
// path of the section, so the same checks serve both the top level and the
// per-provider overrides.
func validateResilience(prefix string, cfg *ResilienceConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxRetries < -1 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_retries",
			Message: "max retries must be -1 (disabled) or greater",
		})
	}
	if cfg.MaxRetries > 10 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_retries",
			Message: "max retries exceeds reasonable limit (10)",
		})
	}
	if cfg.RetryDelay < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".retry_delay",
			Message: "retry delay must be positive",
		})
	}
	if cfg.FailureThreshold < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".failure_threshold",
			Message: "failure threshold must be non-negative",
		})
	}
	if cfg.ResetTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".reset_timeout",
			Message: "reset timeout must be positive",
		})
	}

	for _, tag := range cfg.RetryableErrors {
		if _, err := resilience.ParseTag(tag); err != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".retryable_errors",
				Message: err.Error(),
			})
		}
	}

	return errs
}

// validProviderTypes is the closed set of wire protocols.
var validProviderTypes = map[string]bool{
	"openai":     true,
	"anthropic":  true,
	"openrouter": true,
	"gemini":     true,
}

// validateProviders validates provider configurations.
func validateProviders(providers []ProviderConfig) []FieldError {
	var errs []FieldError

	if len(providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider must be configured",
		})
		return errs
	}

	seen := make(map[string]bool, len(providers))
	for i, provider := range providers {
		prefix := fmt.Sprintf("providers.%s", provider.Name)
		if provider.Name == "" {
			prefix = fmt.Sprintf("providers[%d]", i)
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: "name is required",
			})
		} else {
			key := strings.ToLower(provider.Name)
			if seen[key] {
				errs = append(errs, FieldError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("duplicate provider name %q (names are case-insensitive)", provider.Name),
				})
			}
			seen[key] = true
		}

		if provider.Type == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: "type is required and could not be inferred from the name",
			})
		} else if !validProviderTypes[provider.Type] {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("unknown type %q: must be one of openai, anthropic, openrouter, gemini", provider.Type),
			})
		}

		if provider.BaseURL != "" {
			u, err := url.Parse(provider.BaseURL)
			if err != nil {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL format: %v", err),
				})
			} else if u.Scheme != "http" && u.Scheme != "https" {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL scheme %q: must be http or https", u.Scheme),
				})
			}
		}

		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}
		if provider.MaxTokens < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_tokens",
				Message: "max tokens must be non-negative",
			})
		}
		if provider.ContextWindow < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".context_window",
				Message: "context window must be non-negative",
			})
		}
		if provider.Temperature < 0 || provider.Temperature > 2 {
			errs = append(errs, FieldError{
				Field:   prefix + ".temperature",
				Message: fmt.Sprintf("temperature %v out of range: must be between 0.0 and 2.0", provider.Temperature),
			})
		}

		errs = append(errs, validateResilience(prefix+".resilience", &provider.Resilience)...)
	}

	return errs
}

// validateAliases validates the alias table. Alias names share a namespace
// with provider names in the registry, so collisions are rejected here.
// Whether the referenced provider exists is deliberately not checked: the
// registry logs and skips aliases it cannot construct.
func validateAliases(aliases []AliasConfig, providers []ProviderConfig) []FieldError {
	var errs []FieldError

	providerNames := make(map[string]bool, len(providers))
	for _, p := range providers {
		providerNames[strings.ToLower(p.Name)] = true
	}

	seen := make(map[string]bool, len(aliases))
	for i, alias := range aliases {
		prefix := fmt.Sprintf("aliases.%s", alias.Name)
		if alias.Name == "" {
			prefix = fmt.Sprintf("aliases[%d]", i)
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: "name is required",
			})
		} else {
			key := strings.ToLower(alias.Name)
			if seen[key] {
				errs = append(errs, FieldError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("duplicate alias name %q (names are case-insensitive)", alias.Name),
				})
			}
			if providerNames[key] {
				errs = append(errs, FieldError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("alias %q collides with a provider name", alias.Name),
				})
			}
			seen[key] = true
		}

		before, after, found := strings.Cut(alias.Model, "/")
		if !found || before == "" || after == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".model",
				Message: fmt.Sprintf("model %q is not a composite id: expected \"provider/model\"", alias.Model),
			})
		}
	}

	return errs
}
