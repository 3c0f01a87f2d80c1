package queries

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/service"
	"github.com/architeacher/svc-trip-planner/internal/shared/decorator"
)

type (
	FetchHealthReportQuery struct{}

	FetchHealthReportQueryHandler decorator.QueryHandler[FetchHealthReportQuery, *domain.HealthResult]

	fetchHealthReportQueryHandler struct {
		appService service.ApplicationService
	}
)

func NewFetchHealthReportQueryHandler(
	appService service.ApplicationService,
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient decorator.MetricsClient,
) FetchHealthReportQueryHandler {
	return decorator.ApplyQueryDecorators[FetchHealthReportQuery, *domain.HealthResult](
		fetchHealthReportQueryHandler{
			appService: appService,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h fetchHealthReportQueryHandler) Execute(ctx context.Context, _ FetchHealthReportQuery) (*domain.HealthResult, error) {
	return h.appService.FetchHealthReport(ctx)
}
