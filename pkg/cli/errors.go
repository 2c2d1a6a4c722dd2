package cli

import (
	"errors"
	"fmt"

	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/config"
)

// Exit codes returned by the prism binary.
const (
	// ExitOK means the command succeeded.
	ExitOK = 0
	// ExitRuntime means the command failed at runtime (provider errors,
	// exhausted retries, open breakers, I/O).
	ExitRuntime = 1
	// ExitUsage means the invocation was malformed.
	ExitUsage = 2
	// ExitConfig means the configuration file failed to load or validate.
	ExitConfig = 3
	// ExitUnavailable means the requested adapter is absent or cannot
	// serve requests.
	ExitUnavailable = 4
)

// UsageError reports a malformed invocation: missing arguments, bad flag
// combinations, unparseable flag values.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %s", e.Message)
}

// ConfigError reports a configuration file that could not be read, parsed,
// or validated.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnavailableError reports an adapter that is absent from the registry or
// cannot serve generate calls.
type UnavailableError struct {
	Name   string
	Reason string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("adapter %q is unavailable", e.Name)
	}
	return fmt.Sprintf("adapter %q is unavailable: %s", e.Name, e.Reason)
}

// NewUsageError creates a new UsageError.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// NewConfigError creates a new ConfigError wrapping err.
func NewConfigError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Err: err}
}

// NewUnavailableError creates a new UnavailableError.
func NewUnavailableError(name, reason string) *UnavailableError {
	return &UnavailableError{Name: name, Reason: reason}
}

// ExitCode maps an error to the binary's exit code. nil maps to ExitOK;
// anything unrecognized is a runtime failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	var validationErr config.ValidationError
	if errors.As(err, &validationErr) {
		return ExitConfig
	}

	var unavailErr *UnavailableError
	if errors.As(err, &unavailErr) {
		return ExitUnavailable
	}
	var unimplErr *adapters.UnimplementedError
	if errors.As(err, &unimplErr) {
		return ExitUnavailable
	}

	return ExitRuntime
}
