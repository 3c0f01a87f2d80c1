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
	SubmitTripCommand struct {
		Origin      string
		Destination string
		Email       string
		CallbackURL string
	}

	SubmitTripCommandHandler decorator.CommandHandler[SubmitTripCommand, *domain.Job]

	submitTripCommandHandler struct {
		appService service.ApplicationService
	}
)

func NewSubmitTripCommandHandler(
	appService service.ApplicationService,
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient decorator.MetricsClient,
) SubmitTripCommandHandler {
	return decorator.ApplyCommandDecorators[SubmitTripCommand, *domain.Job](
		submitTripCommandHandler{
			appService: appService,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h submitTripCommandHandler) Handle(ctx context.Context, cmd SubmitTripCommand) (*domain.Job, error) {
	return h.appService.SubmitTrip(ctx, domain.TripRequest{
		Origin:      cmd.Origin,
		Destination: cmd.Destination,
		Email:       cmd.Email,
		CallbackURL: cmd.CallbackURL,
	})
}
