package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

var _ ports.BackgroundProcessor = (*Subscription[struct{}])(nil)

// Subscription binds a typed handler to a fan-out subscription for the
// lifetime of a process.
type Subscription[T any] struct {
	client    subscriber[T]
	transient bool
	handler   queue.Handler[T]
	logger    infrastructure.Logger
}

func NewSubscription[T any](
	client subscriber[T],
	transient bool,
	handler queue.Handler[T],
	logger infrastructure.Logger,
) *Subscription[T] {
	return &Subscription[T]{
		client:    client,
		transient: transient,
		handler:   handler,
		logger:    logger,
	}
}

func (s *Subscription[T]) Start(ctx context.Context) error {
	if err := s.client.StartSubscribing(ctx, s.transient, s.handler); err != nil {
		return fmt.Errorf("failed to start subscription: %w", err)
	}

	s.logger.Info().
		Str("queue", s.client.QueueName()).
		Bool("transient", s.transient).
		Msg("subscription started")

	return nil
}

// Shutdown cancels the consumer and releases the broker connection. Pending
// messages stay in the durable queue.
func (s *Subscription[T]) Shutdown() error {
	var errs error

	if err := s.client.Stop(); err != nil {
		errs = errors.Join(errs, err)
	}

	if err := s.client.Close(); err != nil {
		errs = errors.Join(errs, err)
	}

	if errs != nil {
		return fmt.Errorf("failed to shut down subscription %s: %w", s.client.QueueName(), errs)
	}

	s.logger.Info().Str("queue", s.client.QueueName()).Msg("subscription stopped")

	return nil
}
