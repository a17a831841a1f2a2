package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	requestKey contextKey = "llm_request_id"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithRequestID attaches the inbound request id so provider calls can be
// correlated with the HTTP request that caused them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestKey, id)
}

// RequestIDFrom extracts the request id from the context, or "".
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestKey).(string)
	return v
}
