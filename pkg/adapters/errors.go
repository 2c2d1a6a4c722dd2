package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helios-labs/prism/pkg/resilience"
)

// ConfigError reports a missing or invalid adapter configuration field.
// Raised at construction or first invocation, never retried.
type ConfigError struct {
	// Provider is the adapter with the invalid configuration.
	Provider string

	// Field is the configuration field at fault.
	Field string

	// Message describes the problem.
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// TransientError is a provider failure worth retrying: rate limit,
// timeout, network reset, or server error. The tag drives the retry
// policy's classification.
type TransientError struct {
	// Provider is the adapter that observed the failure.
	Provider string

	// Kind classifies the failure for retry decisions.
	Kind resilience.Tag

	// StatusCode is the HTTP status, 0 when the failure never got a response.
	StatusCode int

	// RetryAfter is the provider-requested wait, 0 when not supplied.
	RetryAfter time.Duration

	// Message is the provider's error text.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *TransientError) Error() string {
	switch {
	case e.Kind == resilience.TagRateLimit && e.RetryAfter > 0:
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("provider %q transient error (status %d, %s): %s",
			e.Provider, e.StatusCode, e.Kind, e.Message)
	default:
		return fmt.Sprintf("provider %q transient error (%s): %s", e.Provider, e.Kind, e.Message)
	}
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// Tag implements resilience.TaggedError so retry policies can classify
// this error even through wrapping.
func (e *TransientError) Tag() resilience.Tag {
	return e.Kind
}

// TerminalError is a provider failure that retrying cannot fix: bad
// request, auth rejection, unknown model. Surfaced immediately.
type TerminalError struct {
	// Provider is the adapter that observed the failure.
	Provider string

	// StatusCode is the HTTP status, 0 when not applicable.
	StatusCode int

	// Message is the provider's error text.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *TerminalError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

func (e *TerminalError) Unwrap() error {
	return e.Cause
}

// ParseError reports a malformed provider response.
type ParseError struct {
	// Provider is the adapter that received the malformed response.
	Provider string

	// RawResponse is the body that failed to parse.
	RawResponse string

	// Cause is the underlying decode error.
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UnimplementedError reports an invocation of a placeholder adapter.
// Always surfaced, never retried.
type UnimplementedError struct {
	// Provider is the placeholder adapter.
	Provider string

	// Operation is the method that was invoked.
	Operation string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("provider %q does not implement %s", e.Provider, e.Operation)
}

// ErrorType names the error class for metrics labels and log fields.
func ErrorType(err error) string {
	if err == nil {
		return "none"
	}

	var (
		configErr        *ConfigError
		transientErr     *TransientError
		terminalErr      *TerminalError
		parseErr         *ParseError
		unimplementedErr *UnimplementedError
		circuitErr       *resilience.CircuitOpenError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &circuitErr):
		return "circuit_open"
	case errors.As(err, &transientErr):
		return string(transientErr.Kind)
	case errors.As(err, &terminalErr):
		return "terminal"
	case errors.As(err, &configErr):
		return "config"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &unimplementedErr):
		return "unimplemented"
	default:
		return "unknown"
	}
}
