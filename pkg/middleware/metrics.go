package middleware

import (
	"net/http"
	"strconv"
	"time"

	"studio-booking/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics middleware records request counts and durations. The path label
// uses the chi route pattern so /api/events/{id} stays one series.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			m.HTTPRequestsTotal.WithLabelValues(
				r.Method, path, strconv.Itoa(rw.statusCode),
			).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).
				Observe(time.Since(start).Seconds())
		})
	}
}
