package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file. The document is
// unmarshalled on top of Default, remaining zero fields are defaulted, and
// the result is validated.
//
// Returns an error if the file cannot be read, contains invalid YAML, or
// fails validation.
func LoadConfig(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides before validating. Environment variables
// follow the naming convention PRISM_SECTION_FIELD (see the package
// documentation) and always take precedence over file values.
//
// Overrides are applied before validation so that credentials supplied only
// through the environment, the usual arrangement for API keys, still produce
// a valid configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return cfg, nil
}

// parse reads and unmarshals the file and applies defaults, without
// validating.
func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	ApplyDefaults(cfg)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables that fail to parse are silently ignored, leaving
// the file value in place.
func applyEnvOverrides(cfg *Config) {
	// Logging overrides
	if val := os.Getenv("PRISM_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("PRISM_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("PRISM_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("PRISM_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}

	// Tracing overrides
	if val := os.Getenv("PRISM_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_TRACING_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := os.Getenv("PRISM_TRACING_SERVICE_NAME"); val != "" {
		cfg.Tracing.ServiceName = val
	}
	if val := os.Getenv("PRISM_TRACING_SAMPLE_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Tracing.SampleRate = f
		}
	}
	if val := os.Getenv("PRISM_TRACING_INSECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Insecure = b
		}
	}

	// Usage overrides
	if val := os.Getenv("PRISM_USAGE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Usage.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_USAGE_REPORT_SCHEDULE"); val != "" {
		cfg.Usage.ReportSchedule = val
	}

	// Health overrides
	if val := os.Getenv("PRISM_HEALTH_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Health.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_HEALTH_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Health.Interval = d
		}
	}

	// Server overrides
	if val := os.Getenv("PRISM_SERVER_LISTEN"); val != "" {
		cfg.Server.Listen = val
	}
	if val := os.Getenv("PRISM_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Resilience overrides
	if val := os.Getenv("PRISM_RESILIENCE_MAX_RETRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Resilience.MaxRetries = n
		}
	}
	if val := os.Getenv("PRISM_RESILIENCE_RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Resilience.RetryDelay = d
		}
	}
	if val := os.Getenv("PRISM_RESILIENCE_FAILURE_THRESHOLD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Resilience.FailureThreshold = n
		}
	}
	if val := os.Getenv("PRISM_RESILIENCE_RESET_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Resilience.ResetTimeout = d
		}
	}

	// Per-provider overrides
	for i := range cfg.Providers {
		applyProviderEnvOverrides(&cfg.Providers[i])
	}
}

// applyProviderEnvOverrides applies environment overrides for a single
// provider. Variables use the prefix PRISM_PROVIDERS_<NAME>_ with the name
// upper-cased and dashes mapped to underscores, so the provider "openai"
// reads PRISM_PROVIDERS_OPENAI_API_KEY.
func applyProviderEnvOverrides(p *ProviderConfig) {
	prefix := "PRISM_PROVIDERS_" + envName(p.Name) + "_"

	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		p.APIKey = val
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		p.BaseURL = val
	}
	if val := os.Getenv(prefix + "DEFAULT_MODEL"); val != "" {
		p.DefaultModel = val
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			p.Timeout = d
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			p.Resilience.MaxRetries = n
		}
	}
}

// envName converts a provider name to its environment variable segment.
func envName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
