package resilience

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Tag classifies a transient failure for retry decisions.
type Tag string

// Known transient failure classifications. Configuration refers to these by
// their string values.
const (
	// TagRateLimit marks provider rate limiting (HTTP 429).
	TagRateLimit Tag = "rate_limit"

	// TagTimeout marks a request that timed out before the provider answered.
	TagTimeout Tag = "timeout"

	// TagNetworkReset marks dropped, reset, or refused connections.
	TagNetworkReset Tag = "network_reset"

	// TagServerError marks provider-side failures (HTTP 5xx).
	TagServerError Tag = "server_error"
)

// AllTags returns every known classification tag.
func AllTags() []Tag {
	return []Tag{TagRateLimit, TagTimeout, TagNetworkReset, TagServerError}
}

// ParseTag converts a configuration string into a Tag.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseTag(s string) (Tag, error) {
	switch tag := Tag(strings.ToLower(strings.TrimSpace(s))); tag {
	case TagRateLimit, TagTimeout, TagNetworkReset, TagServerError:
		return tag, nil
	default:
		return "", fmt.Errorf("unknown retryable error tag %q", s)
	}
}

// TaggedError is implemented by errors that carry a transient-failure
// classification. Tags are discovered with errors.As, so a classification
// survives wrapping with fmt.Errorf("...: %w", err).
type TaggedError interface {
	error
	Tag() Tag
}

// TagOf returns the classification tag carried by err, if any error in its
// chain has one.
func TagOf(err error) (Tag, bool) {
	var tagged TaggedError
	if errors.As(err, &tagged) {
		return tagged.Tag(), true
	}
	return "", false
}

// CircuitOpenError is returned when a breaker rejects a call without
// invoking the wrapped operation.
type CircuitOpenError struct {
	// Name is the breaker's name, usually the adapter it guards.
	Name string

	// OpenedAt is when the breaker last opened.
	OpenedAt time.Time

	// RetryAfter is the remaining cooldown before a probe is admitted.
	// Zero when unknown (a probe is already in flight).
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *CircuitOpenError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("circuit breaker %q is open: retry after %s",
			e.Name, e.RetryAfter.Round(time.Millisecond))
	}
	return fmt.Sprintf("circuit breaker %q is open", e.Name)
}
