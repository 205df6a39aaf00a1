package middleware

import (
	"context"
	"net/http"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware reuses an incoming X-Request-Id or mints a new one,
// echoes it on the response and stores it in the request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), utils.CtxKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
