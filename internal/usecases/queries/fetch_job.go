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
	FetchJobQuery struct {
		JobID string
	}

	FetchJobQueryHandler decorator.QueryHandler[FetchJobQuery, *domain.Job]

	fetchJobQueryHandler struct {
		appService service.ApplicationService
	}
)

func NewFetchJobQueryHandler(
	appService service.ApplicationService,
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient decorator.MetricsClient,
) FetchJobQueryHandler {
	return decorator.ApplyQueryDecorators[FetchJobQuery, *domain.Job](
		fetchJobQueryHandler{
			appService: appService,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h fetchJobQueryHandler) Execute(ctx context.Context, q FetchJobQuery) (*domain.Job, error) {
	return h.appService.FetchJob(ctx, q.JobID)
}
