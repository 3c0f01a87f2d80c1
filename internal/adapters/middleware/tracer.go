package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const tracerOperation = "http.server"

// Tracer starts a server span per request, named after the matched route.
func Tracer() func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(
		tracerOperation,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					return r.Method + " " + pattern
				}
			}

			return r.Method
		}),
	)
}
