package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
)

func newTestRateLimiter(t *testing.T, burst int) http.Handler {
	t.Helper()

	limiter, err := NewThrottledRateLimitingMiddleware(config.ThrottledRateLimitingConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstSize:         burst,
		MaxKeys:           16,
		SkipPaths:         []string{testHealthPath},
	}, infrastructure.NewTestLogger())
	require.NoError(t, err)

	return limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestThrottledRateLimiting_DeniesAfterBurst(t *testing.T) {
	t.Parallel()

	handler := newTestRateLimiter(t, 1)

	statuses := make([]int, 0, 4)

	for range 4 {
		req := httptest.NewRequest(http.MethodPost, testAPIPath, nil)
		req.RemoteAddr = "10.0.0.1:4000"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		statuses = append(statuses, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		}
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Contains(t, statuses, http.StatusTooManyRequests)
}

func TestThrottledRateLimiting_VariesByClient(t *testing.T) {
	t.Parallel()

	handler := newTestRateLimiter(t, 0)

	for _, addr := range []string{"10.0.0.1:4000", "10.0.0.2:4000", "10.0.0.3:4000"} {
		req := httptest.NewRequest(http.MethodPost, testAPIPath, nil)
		req.RemoteAddr = addr

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, addr)
	}
}

func TestThrottledRateLimiting_SkipsConfiguredPaths(t *testing.T) {
	t.Parallel()

	handler := newTestRateLimiter(t, 0)

	for range 5 {
		req := httptest.NewRequest(http.MethodGet, testHealthPath, nil)
		req.RemoteAddr = "10.0.0.9:4000"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
