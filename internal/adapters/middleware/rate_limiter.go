package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"

	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
)

// ThrottledRateLimitingMiddleware applies a GCRA quota per client address.
type ThrottledRateLimitingMiddleware struct {
	limiter   throttled.HTTPRateLimiterCtx
	skipPaths map[string]struct{}
}

func NewThrottledRateLimitingMiddleware(
	cfg config.ThrottledRateLimitingConfig,
	logger infrastructure.Logger,
) (*ThrottledRateLimitingMiddleware, error) {
	store, err := memstore.NewCtx(cfg.MaxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit store: %w", err)
	}

	quota := throttled.RateQuota{
		MaxRate:  throttled.PerSec(cfg.RequestsPerSecond),
		MaxBurst: cfg.BurstSize,
	}

	rateLimiter, err := throttled.NewGCRARateLimiterCtx(store, quota)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return &ThrottledRateLimitingMiddleware{
		limiter: throttled.HTTPRateLimiterCtx{
			RateLimiter:   rateLimiter,
			VaryBy:        &throttled.VaryBy{RemoteAddr: true},
			DeniedHandler: http.HandlerFunc(writeRateLimited),
			Error: func(w http.ResponseWriter, r *http.Request, err error) {
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("rate limiter failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			},
		},
		skipPaths: skipPaths,
	}, nil
}

func (m *ThrottledRateLimitingMiddleware) Middleware(next http.Handler) http.Handler {
	limited := m.limiter.RateLimit(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.skipPaths[r.URL.Path]; ok {
			next.ServeHTTP(w, r)

			return
		}

		limited.ServeHTTP(w, r)
	})
}

func writeRateLimited(w http.ResponseWriter, _ *http.Request) {
	domainErr := domain.NewRateLimitError("Too many requests, retry later")

	writeError(w, domainErr.StatusCode, domainErr.Code, domainErr.Message)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(handlers.ErrorResponse{
		Error:      code,
		Message:    message,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	})
}
