package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/observability"
)

// Timeout bounds every request context by d. A zero or negative d leaves the
// context untouched. Requests that outlive their deadline are logged so slow
// queries and link fetches show up next to the request id.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				observability.GetLogger(ctx).Warn("request deadline exceeded",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("limit", d),
					zap.Duration("elapsed", time.Since(start)),
				)
			}
		})
	}
}
