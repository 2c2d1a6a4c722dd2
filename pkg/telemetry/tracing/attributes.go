package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for adapter spans. Custom keys live under the "prism."
// namespace; error keys follow OpenTelemetry conventions.
const (
	AttrAdapter  = "prism.adapter"
	AttrProvider = "prism.provider"
	AttrModel    = "prism.model"

	AttrRequestID = "prism.request_id"

	AttrTokensPrompt     = "prism.tokens.prompt"
	AttrTokensCompletion = "prism.tokens.completion"
	AttrTokensTotal      = "prism.tokens.total"

	AttrRetryCount   = "prism.retry_count"
	AttrBreakerState = "prism.breaker_state"

	AttrErrorType    = "prism.error.type"
	AttrErrorMessage = "error.message"
)

// SetAdapterAttributes records which adapter handled the span.
func SetAdapterAttributes(span trace.Span, adapter, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrAdapter, adapter),
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetRequestID records the per-call request ID.
func SetRequestID(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
}

// SetTokenAttributes records prompt and completion token counts.
func SetTokenAttributes(span trace.Span, promptTokens, completionTokens int) {
	span.SetAttributes(
		attribute.Int(AttrTokensPrompt, promptTokens),
		attribute.Int(AttrTokensCompletion, completionTokens),
		attribute.Int(AttrTokensTotal, promptTokens+completionTokens),
	)
}

// SetRetryAttribute records how many retries the call consumed.
func SetRetryAttribute(span trace.Span, retryCount int) {
	span.SetAttributes(attribute.Int(AttrRetryCount, retryCount))
}

// SetBreakerAttribute records the circuit breaker state the call saw.
func SetBreakerAttribute(span trace.Span, state string) {
	span.SetAttributes(attribute.String(AttrBreakerState, state))
}

// SetErrorAttributes marks the span failed, records the error event, and
// sets the span status. No-op when err is nil.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
