// Package adapters implements a uniform calling convention over
// heterogeneous AI completion providers.
//
// # Overview
//
// Every provider sits behind the same Adapter interface: generate a
// response from a conversation context, sum a context window, estimate
// tokens. Each adapter owns its own fault isolation, so one failing
// provider never poisons calls to another.
//
// # Architecture
//
// The package is organized into layers:
//
//  1. Adapter interface - the capability contract every provider satisfies
//  2. HTTPAdapter - shared HTTP client logic (pooling, classification,
//     resilience composition, health, instrumentation)
//  3. Provider subpackages - openai, anthropic, openrouter, gemini
//
// # Resilience Composition
//
// Every outbound call runs as circuit breaker around retry around one
// HTTP attempt:
//
//	breaker.Do(ctx, func(ctx) error {
//	    return resilience.Retry(ctx, policy, attempt)
//	})
//
// A call that exhausts its whole retry budget therefore counts as one
// failure against the breaker threshold, not one per attempt.
//
// # Basic Usage
//
//	cfg := adapters.Config{
//	    Name:    "anthropic/claude-3.5-sonnet",
//	    Type:    adapters.TypeAnthropic,
//	    Model:   "claude-3.5-sonnet",
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	    Timeout: 60 * time.Second,
//	}
//
//	adapter, err := anthropic.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adapter.Close()
//
//	resp, err := adapter.GenerateResponse(ctx, &adapters.GenerateRequest{
//	    Messages: []adapters.Message{
//	        {ID: "m1", AuthorType: adapters.AuthorUser, Content: "Hello!"},
//	    },
//	    SystemPrompt: "Be brief.",
//	})
//
// # Error Handling
//
// Failures surface as typed errors carrying the provider name:
//
//   - ConfigError: missing credential, model, or endpoint; never retried
//   - TransientError: rate limit, timeout, network reset, or 5xx; retried
//     up to the policy budget, then surfaced
//   - TerminalError: any other provider failure; surfaced immediately
//   - resilience.CircuitOpenError: breaker is open, provider not contacted
//   - UnimplementedError: placeholder adapter invoked
//
// # Thread Safety
//
// Adapters are safe for concurrent use. Breaker state is mutated under
// a mutex; health counters under their own lock.
package adapters
