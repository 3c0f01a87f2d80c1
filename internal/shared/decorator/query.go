package decorator

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
)

type QueryHandler[Q any, R any] interface {
	Execute(ctx context.Context, q Q) (R, error)
}

func ApplyQueryDecorators[Q any, R any](
	handler QueryHandler[Q, R],
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient MetricsClient,
) QueryHandler[Q, R] {
	return queryLoggingDecorator[Q, R]{
		base: queryMetricsDecorator[Q, R]{
			base: queryTracingDecorator[Q, R]{
				base:   handler,
				tracer: tracerProvider.Tracer(tracerName),
			},
			client: metricsClient,
		},
		logger: logger,
	}
}
