// go-utils/context_keys.go

package utils

import "context"

// ctxKey is unexported to prevent collisions.
type ctxKey string

// CtxKeyRequestID stores the request id assigned by the request-id middleware.
const CtxKeyRequestID ctxKey = "requestID"

// RequestIDFromContext returns the request id, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRequestID).(string); ok {
		return v
	}
	return ""
}
