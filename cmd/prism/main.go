// Prism is a resilient adapter layer in front of multiple AI providers.
//
// It normalizes provider wire formats behind one interface and wraps every
// call in retry-with-backoff and a per-adapter circuit breaker, providing:
//   - Uniform request/response types across OpenAI, Anthropic, and OpenRouter
//   - Tag-based retry of transient failures (rate limits, timeouts, resets)
//   - Circuit breaking with automatic half-open recovery probes
//   - Token estimation and context-window accounting
//   - Prometheus metrics, OTLP tracing, and usage reporting
//
// Usage:
//
//	# Validate a configuration file
//	prism validate --config prism.yaml
//
//	# List configured providers and aliases
//	prism models --config prism.yaml
//
//	# One-shot completion through a named adapter
//	prism ask --adapter claude "Explain circuit breakers"
//
//	# Probe provider endpoints
//	prism probe
//
//	# Run the telemetry server with background health checks
//	prism serve
//
//	# Show version information
//	prism version
package main

func main() {
	Execute()
}
