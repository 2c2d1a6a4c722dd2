package resilience

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// taggedErr is a minimal TaggedError for tests.
type taggedErr struct {
	tag Tag
	msg string
}

func (e *taggedErr) Error() string { return e.msg }
func (e *taggedErr) Tag() Tag      { return e.tag }

func TestTagOf(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTag   Tag
		wantFound bool
	}{
		{
			name:      "tagged error",
			err:       &taggedErr{tag: TagRateLimit, msg: "too many requests"},
			wantTag:   TagRateLimit,
			wantFound: true,
		},
		{
			name:      "tag survives wrapping",
			err:       fmt.Errorf("call failed: %w", &taggedErr{tag: TagTimeout, msg: "deadline"}),
			wantTag:   TagTimeout,
			wantFound: true,
		},
		{
			name:      "plain error has no tag",
			err:       errors.New("boom"),
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, found := TagOf(tt.err)
			if found != tt.wantFound {
				t.Fatalf("TagOf() found = %v, want %v", found, tt.wantFound)
			}
			if found && tag != tt.wantTag {
				t.Errorf("TagOf() tag = %q, want %q", tag, tt.wantTag)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		input   string
		want    Tag
		wantErr bool
	}{
		{input: "rate_limit", want: TagRateLimit},
		{input: "timeout", want: TagTimeout},
		{input: "network_reset", want: TagNetworkReset},
		{input: "server_error", want: TagServerError},
		{input: "  Rate_Limit  ", want: TagRateLimit},
		{input: "TIMEOUT", want: TagTimeout},
		{input: "bogus", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTag(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllTags(t *testing.T) {
	tags := AllTags()
	if len(tags) != 4 {
		t.Fatalf("AllTags() returned %d tags, want 4", len(tags))
	}

	seen := make(map[Tag]bool, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			t.Errorf("duplicate tag %q", tag)
		}
		seen[tag] = true

		if _, err := ParseTag(string(tag)); err != nil {
			t.Errorf("AllTags() tag %q does not round-trip through ParseTag: %v", tag, err)
		}
	}
}

func TestCircuitOpenError_Message(t *testing.T) {
	err := &CircuitOpenError{
		Name:       "anthropic/claude-3.5-sonnet",
		OpenedAt:   time.Now(),
		RetryAfter: 42 * time.Second,
	}

	msg := err.Error()
	if !strings.Contains(msg, "anthropic/claude-3.5-sonnet") {
		t.Errorf("message %q does not name the breaker", msg)
	}
	if !strings.Contains(msg, "open") {
		t.Errorf("message %q does not mention the open state", msg)
	}
	if !strings.Contains(msg, "42s") {
		t.Errorf("message %q does not carry the cooldown", msg)
	}

	noCooldown := &CircuitOpenError{Name: "openai"}
	if strings.Contains(noCooldown.Error(), "retry after") {
		t.Errorf("message %q should not promise a retry time", noCooldown.Error())
	}
}
