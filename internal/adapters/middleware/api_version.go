package middleware

import (
	"net/http"
)

type APIVersionMiddleware struct {
	apiVersion     string
	serviceVersion string
}

func NewAPIVersionMiddleware(apiVersion, serviceVersion string) APIVersionMiddleware {
	return APIVersionMiddleware{
		apiVersion:     apiVersion,
		serviceVersion: serviceVersion,
	}
}

func (mw APIVersionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("API-Version", mw.apiVersion)

		if mw.serviceVersion != "" {
			w.Header().Set("X-Service-Version", mw.serviceVersion)
		}

		next.ServeHTTP(w, r)
	})
}
