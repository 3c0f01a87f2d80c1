package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const unmatchedRoute = "unmatched"

type HTTPRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64)
}

type MetricsMiddleware struct {
	metrics HTTPRecorder
}

func NewMetricsMiddleware(metrics HTTPRecorder) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Middleware records every request under its route pattern so that job IDs
// do not end up as metric labels.
func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		recorder := recorderFrom(w)

		next.ServeHTTP(recorder, r)

		m.metrics.RecordHTTPRequest(
			r.Context(),
			r.Method,
			routePattern(r),
			recorder.StatusCode(),
			time.Since(startTime),
			r.ContentLength,
			recorder.BytesWritten(),
		)
	})
}

func routePattern(r *http.Request) string {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return unmatchedRoute
	}

	if pattern := routeCtx.RoutePattern(); pattern != "" {
		return pattern
	}

	return unmatchedRoute
}
