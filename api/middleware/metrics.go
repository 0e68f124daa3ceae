package middleware

import (
	"net/http"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request counts and latencies labelled by route pattern,
// not raw path, so high-cardinality ids never reach Prometheus.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			httpMetrics.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
