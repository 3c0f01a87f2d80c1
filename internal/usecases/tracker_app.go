package usecases

import (
	otelTrace "go.opentelemetry.io/otel/trace"

	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/service"
	"github.com/architeacher/svc-trip-planner/internal/shared/decorator"
	"github.com/architeacher/svc-trip-planner/internal/usecases/commands"
)

type (
	TrackerApplication struct {
		Commands TrackerCommands
	}

	TrackerCommands struct {
		TrackJobStageHandler     commands.TrackJobStageHandler
		NotifyJobFinishedHandler commands.NotifyJobFinishedHandler
	}
)

func NewTrackerApplication(
	trackerService service.TrackerService,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) *TrackerApplication {
	return &TrackerApplication{
		Commands: TrackerCommands{
			TrackJobStageHandler: commands.NewTrackJobStageHandler(
				trackerService,
				logger,
				tracerProvider,
				metricsClient,
			),
			NotifyJobFinishedHandler: commands.NewNotifyJobFinishedHandler(
				trackerService,
				logger,
				tracerProvider,
				metricsClient,
			),
		},
	}
}
