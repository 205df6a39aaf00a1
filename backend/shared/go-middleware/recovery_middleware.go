package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
)

// RecoveryMiddleware turns a handler panic into a 500 JSON response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.Logger.
					WithField("stack", string(debug.Stack())).
					WithField("request_id", utils.RequestIDFromContext(r.Context())).
					Error("panic while handling request")
				utils.RespondErrorWithCode(
					w, http.StatusInternalServerError, utils.ErrCodeInternal,
					"An unexpected error occurred", nil, fmt.Errorf("panic: %v", rec),
				)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
