package cli

import (
	"errors"
	"fmt"
	"testing"

	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/config"
)

func TestUsageError(t *testing.T) {
	err := NewUsageError("prompt is required (pass arguments or pipe stdin)")

	expected := "usage error: prompt is required (pass arguments or pipe stdin)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConfigError(t *testing.T) {
	underlyingErr := errors.New("no such file")
	err := NewConfigError("prism.yaml", underlyingErr)

	expected := "config prism.yaml: no such file"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should reach the wrapped error")
	}
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("openai/gpt-4o", "missing API key")

	expected := `adapter "openai/gpt-4o" is unavailable: missing API key`
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	bare := NewUnavailableError("claude", "")
	if bare.Error() != `adapter "claude" is unavailable` {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitOK,
		},
		{
			name: "usage error",
			err:  NewUsageError("missing prompt"),
			want: ExitUsage,
		},
		{
			name: "config error",
			err:  NewConfigError("prism.yaml", errors.New("parse failure")),
			want: ExitConfig,
		},
		{
			name: "validation error",
			err: config.ValidationError{Errors: []config.FieldError{
				{Field: "server.listen", Message: "listen address is required"},
			}},
			want: ExitConfig,
		},
		{
			name: "unavailable adapter",
			err:  NewUnavailableError("gemini", "not implemented"),
			want: ExitUnavailable,
		},
		{
			name: "unimplemented adapter",
			err:  &adapters.UnimplementedError{Provider: "gemini", Operation: "GenerateResponse"},
			want: ExitUnavailable,
		},
		{
			name: "wrapped usage error",
			err:  fmt.Errorf("ask: %w", NewUsageError("missing prompt")),
			want: ExitUsage,
		},
		{
			name: "wrapped validation error",
			err: fmt.Errorf("validate: %w", config.ValidationError{Errors: []config.FieldError{
				{Field: "logging.level", Message: "invalid level"},
			}}),
			want: ExitConfig,
		},
		{
			name: "plain error is a runtime failure",
			err:  errors.New("connection refused"),
			want: ExitRuntime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
