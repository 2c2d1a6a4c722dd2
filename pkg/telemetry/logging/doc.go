// Package logging builds the process-wide slog logger.
//
// # Overview
//
// The package parses level and format from configuration and returns a
// plain *slog.Logger:
//   - JSON or text output
//   - Configurable log levels (debug, info, warn, error)
//   - Automatic credential redaction via a ReplaceAttr hook
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("adapter constructed",
//	    "adapter", "anthropic/claude-3.5-sonnet",
//	    "api_key", "sk-abc123", // automatically masked
//	)
//
// # Redaction
//
// With RedactSecrets enabled, attributes whose key names a credential
// (api_key, authorization, token, ...) are masked entirely, and string
// values that look like bearer tokens or sk- keys are masked in place. This
// keeps provider credentials out of logs even when whole config structs are
// logged.
package logging
