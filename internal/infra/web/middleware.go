// File: internal/infra/web/middleware.go
package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"marketing-automation/internal/infra/logging"
)

// traceMiddleware assigns each request a trace id, carries it on the
// context for downstream log lines, and logs the request once served.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Trace-Id", traceID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}
