// Package telemetry groups the observability subsystems of the adapter
// layer.
//
// # Components
//
//   - logging: structured slog logging with secret redaction
//   - metrics: Prometheus metrics for requests, retries, breaker state
//   - tracing: OpenTelemetry spans for adapter calls
//
// Each subpackage stands alone and takes its own Config; nothing here
// depends on the rest of the system, so any package can import telemetry
// without cycles.
package telemetry
