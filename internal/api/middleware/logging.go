package middleware

import (
	"net/http"
	"time"

	"github.com/amaumene/gomeshelf/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging logs every request and records it in m, which may be nil
func Logging(logger *logrus.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)
			elapsed := time.Since(start)

			// label by pattern so ids do not explode metric cardinality
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.ObserveHTTP(r.Method, route, wrapped.statusCode, elapsed)

			entry := logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       route,
				"status":      wrapped.statusCode,
				"duration_ms": elapsed.Milliseconds(),
				"remote_addr": r.RemoteAddr,
			})
			if wrapped.statusCode >= http.StatusInternalServerError {
				entry.Warn("HTTP request")
				return
			}
			entry.Info("HTTP request")
		})
	}
}
