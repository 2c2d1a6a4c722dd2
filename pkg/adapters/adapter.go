package adapters

import (
	"context"

	"helios-labs/prism/pkg/resilience"
)

// Adapter is the capability contract every provider implementation
// satisfies. The registry hands out Adapters; callers never see concrete
// provider types.
//
// All blocking methods take a context.Context and return promptly when it
// is canceled.
type Adapter interface {
	// GenerateResponse produces a completion for the request's conversation
	// context, with the system prompt prepended as the highest-priority
	// instruction. The context may be empty.
	//
	// On success, the response's Tokens and ContextUsed reflect
	// provider-reported usage when available, estimates otherwise. Fails
	// with a provider-prefixed error when credentials are absent, when all
	// retries are exhausted, or when the circuit is open.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*AIResponse, error)

	// CheckContextWindow sums token counts across messages, using each
	// message's explicit count when present and the token estimator
	// otherwise. Pure; deterministic for identical input.
	CheckContextWindow(messages []Message) int

	// EstimateTokens approximates the token count of a text blob. A cheap
	// deterministic heuristic, not the provider's true tokenizer.
	EstimateTokens(text string) int

	// GetName returns the adapter's identity as registered.
	GetName() string

	// GetType returns the provider type (openai, anthropic, ...).
	GetType() string

	// GetModel returns the provider-side model identifier.
	GetModel() string

	// GetConfig returns the adapter's configuration.
	GetConfig() Config

	// IsAvailable reports whether the adapter can serve generate calls:
	// credentialed and implemented. Independent of momentary health.
	IsAvailable() bool

	// IsHealthy returns the verdict of the most recent probe or request.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() Health

	// BreakerSnapshot reports the circuit breaker's current state.
	BreakerSnapshot() resilience.Snapshot

	// HealthCheck performs one on-demand probe against the provider.
	HealthCheck(ctx context.Context) error

	// StartHealthChecker begins periodic background probing. Stops when
	// ctx is canceled or the adapter is closed.
	StartHealthChecker(ctx context.Context)

	// Close releases the adapter's resources. The adapter must not be
	// used afterward.
	Close() error
}
