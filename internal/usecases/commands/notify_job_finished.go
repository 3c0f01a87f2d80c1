package commands

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/service"
	"github.com/architeacher/svc-trip-planner/internal/shared/decorator"
)

type (
	NotifyJobFinishedCommand struct {
		Event domain.TripJobFinished
	}

	NotifyJobFinishedHandler decorator.CommandHandler[NotifyJobFinishedCommand, struct{}]

	notifyJobFinishedHandler struct {
		trackerService service.TrackerService
	}
)

func NewNotifyJobFinishedHandler(
	trackerService service.TrackerService,
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient decorator.MetricsClient,
) NotifyJobFinishedHandler {
	return decorator.ApplyCommandDecorators[NotifyJobFinishedCommand, struct{}](
		notifyJobFinishedHandler{
			trackerService: trackerService,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h notifyJobFinishedHandler) Handle(ctx context.Context, cmd NotifyJobFinishedCommand) (struct{}, error) {
	return struct{}{}, h.trackerService.NotifyJobFinished(ctx, cmd.Event)
}
