package middleware

import (
	"net/http"
)

type SecurityHeadersMiddleware struct {
	headers map[string]string
}

func NewSecurityHeadersMiddleware() SecurityHeadersMiddleware {
	return SecurityHeadersMiddleware{
		headers: map[string]string{
			"X-Content-Type-Options":    "nosniff",
			"X-Frame-Options":           "DENY",
			"Referrer-Policy":           "no-referrer",
			"Cache-Control":             "no-store",
			"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
			"Strict-Transport-Security": "max-age=63072000; includeSubDomains",
		},
	}
}

func (mw SecurityHeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range mw.headers {
			w.Header().Set(name, value)
		}

		next.ServeHTTP(w, r)
	})
}
