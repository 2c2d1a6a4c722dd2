// Package config provides configuration management for Prism.
//
// This package handles loading, validating, and watching configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("prism.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("prism.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PRISM_SECTION_FIELD.
// For example:
//
//   - PRISM_LOGGING_LEVEL overrides logging.level
//   - PRISM_SERVER_LISTEN overrides server.listen
//   - PRISM_PROVIDERS_OPENAI_API_KEY overrides the api_key of the provider
//     named "openai"
//
// Environment variables always take precedence over file-based configuration.
// API keys in particular are expected to arrive this way; a configuration
// without keys still validates, and adapters that cannot be constructed are
// reported as unavailable rather than failing the process.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (Default in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher observes the configuration file and invokes a reload callback after
// a debounced change. "prism serve" uses it to pick up edits without a
// restart:
//
//	w, err := config.NewWatcher("prism.yaml", 0, logger)
//	go w.Watch(ctx, func() error {
//	    cfg, err := config.LoadConfigWithEnvOverrides("prism.yaml")
//	    ...
//	})
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// includes required fields, range checks (sample rates, temperatures,
// timeouts), format checks (URLs, cron expressions, retryable error tags),
// and cross-field rules (alias names must not shadow provider names).
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - providers.openai.type: unknown type "azure": must be one of openai, anthropic, openrouter, gemini
//	  - aliases.claude.model: model "claude-3-5-sonnet" is not a composite id: expected "provider/model"
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	logging:
//	  level: "info"
//	  format: "json"
//
//	resilience:
//	  max_retries: 3
//	  retry_delay: "1s"
//
//	providers:
//	  - name: "openai"
//	    type: "openai"
//	    default_model: "gpt-4o"
//	  - name: "anthropic"
//	    type: "anthropic"
//	    default_model: "claude-3-5-sonnet"
//
//	aliases:
//	  - name: "claude"
//	    model: "anthropic/claude-3-5-sonnet"
package config
