// Package resilience provides the failure-handling primitives shared by all
// provider adapters: bounded retry with exponential backoff, and a
// per-adapter circuit breaker.
//
// The two compose in a fixed order: the breaker wraps the retried operation,
// so an exhausted retry sequence reaches the breaker as a single failure.
// Transient retried failures never trip the breaker on their own.
//
// Retry decisions are driven by classification tags. An error opts in to
// retrying by implementing TaggedError; which tags an adapter actually
// retries is configuration data, not code.
package resilience
