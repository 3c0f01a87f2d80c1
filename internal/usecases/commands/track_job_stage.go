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
	TrackJobStageCommand struct {
		Report domain.JobStageReported
	}

	TrackJobStageHandler decorator.CommandHandler[TrackJobStageCommand, *domain.TrackJobStageResult]

	trackJobStageHandler struct {
		trackerService service.TrackerService
	}
)

func NewTrackJobStageHandler(
	trackerService service.TrackerService,
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient decorator.MetricsClient,
) TrackJobStageHandler {
	return decorator.ApplyCommandDecorators[TrackJobStageCommand, *domain.TrackJobStageResult](
		trackJobStageHandler{
			trackerService: trackerService,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h trackJobStageHandler) Handle(
	ctx context.Context,
	cmd TrackJobStageCommand,
) (*domain.TrackJobStageResult, error) {
	return h.trackerService.TrackJobStage(ctx, cmd.Report)
}
