//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

import (
	"context"

	"github.com/architeacher/svc-trip-planner/internal/domain"
)

//counterfeiter:generate -o ../mocks/trip_dispatcher.go . TripDispatcher
//counterfeiter:generate -o ../mocks/job_event_publisher.go . JobEventPublisher
//counterfeiter:generate -o ../mocks/callback_notifier.go . CallbackNotifier

type (
	// TripDispatcher hands a planning request to the first pipeline stage.
	TripDispatcher interface {
		Dispatch(ctx context.Context, msg domain.PlanTrip) error
	}

	// JobEventPublisher fans a finished job out to every interested group.
	JobEventPublisher interface {
		PublishFinished(ctx context.Context, msg domain.TripJobFinished) error
	}

	// CallbackNotifier delivers a finished job to the callback URL of its requester.
	CallbackNotifier interface {
		Notify(ctx context.Context, msg domain.TripJobFinished) error
	}
)
