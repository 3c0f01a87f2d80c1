package decorator

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
)

type CommandHandler[C any, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// ApplyCommandDecorators wraps handler with logging, metrics and tracing, outermost first.
func ApplyCommandDecorators[C any, R any](
	handler CommandHandler[C, R],
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient MetricsClient,
) CommandHandler[C, R] {
	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:   handler,
				tracer: tracerProvider.Tracer(tracerName),
			},
			client: metricsClient,
		},
		logger: logger,
	}
}

// generateActionName turns commands.SubmitTripCommand into submittripcommand.
func generateActionName(handler any) string {
	name := fmt.Sprintf("%T", handler)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}

	return strings.ToLower(name)
}
