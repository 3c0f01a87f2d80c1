package usecases

import (
	otelTrace "go.opentelemetry.io/otel/trace"

	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/service"
	"github.com/architeacher/svc-trip-planner/internal/shared/decorator"
	"github.com/architeacher/svc-trip-planner/internal/usecases/commands"
	"github.com/architeacher/svc-trip-planner/internal/usecases/queries"
)

type (
	WebApplication struct {
		Commands Commands
		Queries  Queries
	}

	Commands struct {
		SubmitTripCommandHandler commands.SubmitTripCommandHandler
	}

	Queries struct {
		FetchJobQueryHandler          queries.FetchJobQueryHandler
		FetchHealthReportQueryHandler queries.FetchHealthReportQueryHandler
	}
)

func NewWebApplication(
	appService service.ApplicationService,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) *WebApplication {
	return &WebApplication{
		Commands: Commands{
			SubmitTripCommandHandler: commands.NewSubmitTripCommandHandler(appService, logger, tracerProvider, metricsClient),
		},
		Queries: Queries{
			FetchJobQueryHandler: queries.NewFetchJobQueryHandler(
				appService, logger, tracerProvider, metricsClient,
			),
			FetchHealthReportQueryHandler: queries.NewFetchHealthReportQueryHandler(
				appService, logger, tracerProvider, metricsClient,
			),
		},
	}
}
