package resilience

import (
	"context"
	"time"
)

// Default retry settings, applied by callers that build a Policy from
// incomplete configuration.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 1 * time.Second
)

// Policy controls how Retry treats a single wrapped operation.
// A Policy is immutable; build one per call site.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first.
	// Negative values behave like zero.
	MaxRetries int

	// InitialDelay is the wait before the first retry. Each subsequent
	// retry doubles the previous wait.
	InitialDelay time.Duration

	// RetryableErrors lists the classifications worth retrying. An error
	// whose tag is not listed, or that carries no tag at all, propagates
	// immediately.
	RetryableErrors []Tag

	// OnRetry, when set, runs before each backoff wait. attempt is the
	// upcoming attempt number (2 for the first retry), delay the wait about
	// to be taken, err the failure that triggered it.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns a policy retrying every known transient tag.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      DefaultMaxRetries,
		InitialDelay:    DefaultInitialDelay,
		RetryableErrors: AllTags(),
	}
}

// retryable reports whether tag is in the policy's retryable set.
func (p Policy) retryable(tag Tag) bool {
	for _, t := range p.RetryableErrors {
		if t == tag {
			return true
		}
	}
	return false
}

// Retry runs op, retrying classified transient failures with exponential
// backoff. The delay before attempt k (k >= 2) is InitialDelay * 2^(k-2).
//
// Backoff waits select on ctx, so cancellation during a wait returns
// ctx.Err() without another attempt. When every attempt fails, the last
// error is returned unchanged.
func Retry(ctx context.Context, policy Policy, op func(context.Context) error) error {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	var lastErr error
	delay := policy.InitialDelay

	for attempt := 1; attempt <= policy.MaxRetries+1; attempt++ {
		if attempt > 1 {
			if policy.OnRetry != nil {
				policy.OnRetry(attempt, delay, lastErr)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		tag, ok := TagOf(lastErr)
		if !ok || !policy.retryable(tag) {
			return lastErr
		}
	}

	return lastErr
}
