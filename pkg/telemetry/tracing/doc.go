// Package tracing provides OpenTelemetry tracing for adapter calls.
//
// # Overview
//
// Every completion request produces one span covering the full resilience
// pipeline (circuit breaker admission, retry attempts, the HTTP exchange).
// Spans export over OTLP gRPC and carry W3C Trace Context on outbound
// provider requests.
//
// # Usage
//
//	tracer, err := tracing.New(tracing.Config{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "prism",
//	    Sampler:     "ratio",
//	    SampleRatio: 0.1,
//	    Insecure:    true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "prism.adapter.generate")
//	defer span.End()
//	tracing.SetAdapterAttributes(span, "anthropic/claude-3.5-sonnet", "anthropic", "claude-3.5-sonnet")
//
// When disabled, New returns a noop tracer and span creation costs under
// a microsecond.
//
// # Sampling
//
// Three strategies: "always", "never", and "ratio" with a sample_ratio
// between 0.0 and 1.0. All are wrapped in ParentBased so a sampled parent
// always produces sampled children.
package tracing
