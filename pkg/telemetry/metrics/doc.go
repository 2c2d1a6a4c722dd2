// Package metrics provides Prometheus metrics for the adapter layer.
//
// # Overview
//
// One AdapterMetrics instance covers every adapter in a registry. It tracks
// request counts, typed error counts, retry attempts, call latency, token
// usage, circuit breaker state, and probe health, all labeled by adapter
// name so a single dashboard can compare providers.
//
// # Usage
//
//	m := metrics.NewAdapterMetrics("prism", nil)
//
//	m.RecordRequest("anthropic/claude-3.5-sonnet", "anthropic", "claude-3.5-sonnet")
//	m.ObserveLatency("anthropic/claude-3.5-sonnet", "anthropic", 0.95)
//	m.SetBreakerState("anthropic/claude-3.5-sonnet", 1) // open
//
//	http.Handle("/metrics", m.Handler())
//
// # Histogram Buckets
//
// Latency buckets default to 0.1s through 30s, sized for completion calls
// rather than ordinary HTTP traffic.
package metrics
