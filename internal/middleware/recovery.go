package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/transport"
)

// Recovery turns a handler panic into a logged 500 with the JSON error body.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				observability.GetLogger(r.Context()).Error("panic_recovered",
					zap.Any("error", rec),
					zap.Stack("stack"),
				)
				transport.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
