package contextkey

import "context"

type key string

const (
	TraceID   key = "trace_id"
	RequestID key = "request_id"
)

// WithRequestIDs stores the trace and request ids of an API call.
func WithRequestIDs(ctx context.Context, traceID, requestID string) context.Context {
	ctx = context.WithValue(ctx, TraceID, traceID)
	return context.WithValue(ctx, RequestID, requestID)
}

// TraceIDFrom returns the trace id stored in ctx, or "".
func TraceIDFrom(ctx context.Context) string {
	return stringValue(ctx, TraceID)
}

// RequestIDFrom returns the request id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	return stringValue(ctx, RequestID)
}

func stringValue(ctx context.Context, k key) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(k).(string)
	return value
}
