package queue

import (
	"context"

	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

type (
	sender[T any] interface {
		Send(ctx context.Context, msg T) error
	}

	publisher[T any] interface {
		Publish(ctx context.Context, msg T) error
	}

	subscriber[T any] interface {
		StartSubscribing(ctx context.Context, transient bool, handler queue.Handler[T]) error
		Stop() error
		Close() error
		QueueName() string
	}
)
