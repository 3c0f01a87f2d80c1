package middleware

import (
	"context"
	"net/http"
)

// HealthCheckFilter keeps probe and scrape traffic out of the access log.
type HealthCheckFilter struct {
	quietPaths      map[string]struct{}
	logHealthChecks bool
}

func NewHealthCheckFilter(logHealthChecks bool, extraPaths ...string) *HealthCheckFilter {
	quietPaths := map[string]struct{}{
		"/v1/health": {},
		"/metrics":   {},
		"/healthz":   {},
		"/readyz":    {},
		"/livez":     {},
	}

	for _, path := range extraPaths {
		quietPaths[path] = struct{}{}
	}

	return &HealthCheckFilter{
		quietPaths:      quietPaths,
		logHealthChecks: logHealthChecks,
	}
}

func (h *HealthCheckFilter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.logHealthChecks {
			next.ServeHTTP(w, r)

			return
		}

		if _, ok := h.quietPaths[r.URL.Path]; ok {
			ctx := context.WithValue(r.Context(), skipAccessLogKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))

			return
		}

		next.ServeHTTP(w, r)
	})
}
