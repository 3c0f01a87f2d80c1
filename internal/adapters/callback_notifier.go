package adapters

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

const defaultUserAgent = "TripPlanner/1.0"

var (
	errPrivateCallbackHost = errors.New("callbacks to private or local networks are not allowed")

	_ ports.CallbackNotifier = (*CallbackNotifier)(nil)
)

type (
	// CallbackNotifier posts finished jobs to the callback URL given at submission.
	CallbackNotifier struct {
		client         *resty.Client
		circuitBreaker *gobreaker.CircuitBreaker
		logger         infrastructure.Logger
		metrics        infrastructure.Metrics
		config         config.NotifierConfig
	}

	callbackPayload struct {
		JobID      string    `json:"job_id"`
		Status     string    `json:"status"`
		Error      string    `json:"error,omitempty"`
		FinishedAt time.Time `json:"finished_at"`
	}
)

func NewCallbackNotifier(
	config config.NotifierConfig,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
) *CallbackNotifier {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(config.Timeout).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(config.RetryWaitTime).
		SetRetryMaxWaitTime(config.MaxRetryWaitTime).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}

			return resp.StatusCode() == http.StatusTooManyRequests ||
				resp.StatusCode() >= http.StatusInternalServerError
		})

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client.SetHeaders(map[string]string{
		"User-Agent":   userAgent,
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})

	cbSettings := gobreaker.Settings{
		Name:        "callback-notifier",
		MaxRequests: config.CircuitBreaker.MaxRequests,
		Interval:    config.CircuitBreaker.Interval,
		Timeout:     config.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// A callback that refuses the payload says nothing about its availability.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrCallbackRejected)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info().
				Str("name", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &CallbackNotifier{
		client:         client,
		circuitBreaker: gobreaker.NewCircuitBreaker(cbSettings),
		logger:         logger,
		metrics:        metrics,
		config:         config,
	}
}

// Notify posts the outcome of a job. Jobs without a callback URL are skipped.
// A rejected or invalid callback is permanent and wraps ErrCallbackRejected or
// ErrInvalidCallbackURL, every other error is worth retrying later.
func (n *CallbackNotifier) Notify(ctx context.Context, msg domain.TripJobFinished) error {
	if msg.CallbackURL == "" {
		return nil
	}

	callbackURL, err := domain.NewCallbackURL(msg.CallbackURL)
	if err != nil {
		return err
	}

	if !n.config.AllowPrivateNetworks && isPrivateOrLocalHost(callbackURL.Hostname()) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCallbackURL, errPrivateCallbackHost)
	}

	_, err = n.circuitBreaker.Execute(func() (any, error) {
		return nil, n.post(ctx, callbackURL.String(), msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		n.logger.Warn().Str("url", callbackURL.String()).Msg("circuit breaker is open")

		return domain.NewDomainError(
			"CIRCUIT_BREAKER_OPEN",
			"callback delivery temporarily suspended due to repeated failures",
			http.StatusServiceUnavailable,
			errors.Join(domain.ErrCircuitBreakerOpen, err),
		)
	}

	return err
}

func (n *CallbackNotifier) post(ctx context.Context, url string, msg domain.TripJobFinished) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(callbackPayload{
			JobID:      msg.JobID.String(),
			Status:     string(msg.Status),
			Error:      msg.Error,
			FinishedAt: msg.FinishedAt.UTC(),
		}).
		Post(url)
	if err != nil {
		n.metrics.RecordCallback(ctx, false, 0)
		n.logger.Error().
			Err(err).
			Str("job_id", msg.JobID.String()).
			Str("url", url).
			Msg("failed to deliver callback")

		return fmt.Errorf("failed to deliver callback: %w", err)
	}

	statusCode := resp.StatusCode()
	success := statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices

	n.metrics.RecordCallback(ctx, success, statusCode)
	n.logger.Info().
		Str("job_id", msg.JobID.String()).
		Str("url", url).
		Int("status_code", statusCode).
		Int64("duration_ms", resp.Time().Milliseconds()).
		Msg("callback delivered")

	switch {
	case success:
		return nil
	case statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError:
		return fmt.Errorf("callback answered with status %d", statusCode)
	default:
		return domain.NewCallbackRejectedError(url, statusCode)
	}
}

func isPrivateOrLocalHost(host string) bool {
	hostLower := strings.ToLower(host)
	if hostLower == "localhost" || strings.HasSuffix(hostLower, ".localhost") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}
