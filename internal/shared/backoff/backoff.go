package backoff

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/architeacher/svc-trip-planner/internal/config"
)

type (
	// Strategy defines the methodology for backing off after a grpc connection
	// failure.
	Strategy interface {
		// Backoff returns the amount of time to wait before the next retry given
		// the number of consecutive failures.
		Backoff(retries int) time.Duration
	}

	// Exponential implements exponential backoff algorithm.
	Exponential struct {
		// config contains all options to configure the backoff algorithm.
		config config.BackoffConfig
	}
)

func NewExponentialStrategy(cfg config.BackoffConfig) Exponential {
	return Exponential{
		config: cfg,
	}
}

// Backoff calculates the backoff duration using exponential backoff with jitter.
func (bc Exponential) Backoff(retries int) time.Duration {
	if retries == 0 {
		return bc.config.BaseDelay
	}

	backoff, maxBackoff := float64(bc.config.BaseDelay), float64(bc.config.MaxDelay)
	for backoff < maxBackoff && retries > 0 {
		backoff *= bc.config.Multiplier
		retries--
	}

	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	backoff *= 1 + bc.config.Jitter*(rand.Float64()*2-1)
	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// permanentError stops Retry at once.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marks err as not worth retrying. Retry returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err: err}
}

// Retry runs op until it succeeds, returns a Permanent error, ctx is done or
// maxAttempts is reached, sleeping per the strategy between attempts. It
// returns the number of attempts made and the last error.
func Retry(ctx context.Context, strategy Strategy, maxAttempts int, op func(ctx context.Context) error) (int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(ctx); err == nil {
			return attempt, nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return attempt, permanent.err
		}

		if attempt == maxAttempts {
			return attempt, err
		}

		timer := time.NewTimer(strategy.Backoff(attempt - 1))

		select {
		case <-ctx.Done():
			timer.Stop()

			return attempt, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}

	return maxAttempts, err
}
