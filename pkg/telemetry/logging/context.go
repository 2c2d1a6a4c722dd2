package logging

import "context"

// contextKey keeps context values private to this package.
type contextKey string

// requestIDKey is the context key for per-call request IDs.
const requestIDKey contextKey = "request_id"

// WithRequestID adds a request ID to the context. Adapters attach it to
// their log records and outbound provider calls.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID retrieves the request ID from the context, if set.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
