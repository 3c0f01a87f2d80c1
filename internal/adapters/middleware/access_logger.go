package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	skipAccessLogKey contextKey = "skip_access_log"

	tripsPath = "/v1/trips/"
)

type AccessLogger struct {
	logger             zerolog.Logger
	includeQueryParams bool
}

func NewAccessLogger(logger zerolog.Logger, includeQueryParams bool) *AccessLogger {
	return &AccessLogger{
		logger:             logger.With().Str("component", "http_access").Logger(),
		includeQueryParams: includeQueryParams,
	}
}

func (a *AccessLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skip, ok := r.Context().Value(skipAccessLogKey).(bool); ok && skip {
			next.ServeHTTP(w, r)

			return
		}

		startTime := time.Now()
		recorder := recorderFrom(w)

		next.ServeHTTP(recorder, r)

		duration := time.Since(startTime)

		logEvent := a.event(recorder.StatusCode()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Str("proto", r.Proto).
			Str("host", r.Host).
			Int("status_code", recorder.StatusCode()).
			Int64("response_size_bytes", recorder.BytesWritten()).
			Dur("duration", duration).
			Float64("duration_ms", float64(duration.Microseconds())/1000)

		if a.includeQueryParams {
			logEvent.Str("query", r.URL.RawQuery)
		}

		if requestID := requestID(r); requestID != "" {
			logEvent.Str("request_id", requestID)
		}

		if traceID := traceID(r); traceID != "" {
			logEvent.Str("trace_id", traceID)
		}

		if referer := r.Referer(); referer != "" {
			logEvent.Str("referer", referer)
		}

		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
			logEvent.Str("route", routeCtx.RoutePattern())
		}

		if jobID := jobID(r, recorder.Header()); jobID != "" {
			logEvent.Str("job_id", jobID)
		}

		logEvent.Msg("HTTP request completed")
	})
}

func (a *AccessLogger) event(statusCode int) *zerolog.Event {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return a.logger.Error()
	case statusCode >= http.StatusBadRequest:
		return a.logger.Warn()
	default:
		return a.logger.Info()
	}
}

func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}

	return r.Header.Get("X-Request-ID")
}

func traceID(r *http.Request) string {
	if spanCtx := trace.SpanContextFromContext(r.Context()); spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}

	return r.Header.Get("X-Trace-ID")
}

// jobID returns the trip job a request addressed: the path parameter of a fetch,
// or the Location of an accepted submission.
func jobID(r *http.Request, header http.Header) string {
	if id := chi.URLParam(r, "jobId"); id != "" {
		return id
	}

	if location := header.Get("Location"); strings.HasPrefix(location, tripsPath) {
		return strings.TrimPrefix(location, tripsPath)
	}

	return ""
}
