package queue

import (
	"context"
	"errors"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/usecases"
	"github.com/architeacher/svc-trip-planner/internal/usecases/commands"
)

// StageReportHandler feeds stage reports into the tracker.
type StageReportHandler struct {
	app    *usecases.TrackerApplication
	logger infrastructure.Logger
}

func NewStageReportHandler(app *usecases.TrackerApplication, logger infrastructure.Logger) *StageReportHandler {
	return &StageReportHandler{
		app:    app,
		logger: logger,
	}
}

// Handle acknowledges applied, duplicate and malformed reports. A report whose
// job is not stored yet, or that lost an update race, is rejected so the broker
// redelivers it later.
func (h *StageReportHandler) Handle(ctx context.Context, msg domain.JobStageReported) (bool, error) {
	_, err := h.app.Commands.TrackJobStageHandler.Handle(ctx, commands.TrackJobStageCommand{Report: msg})

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUnknownStage):
		h.logger.Warn().
			Err(err).
			Str("job_id", msg.JobID.String()).
			Msg("dropping stage report")

		return true, nil
	case errors.Is(err, domain.ErrJobNotFound):
		h.logger.Debug().
			Str("job_id", msg.JobID.String()).
			Str("stage", string(msg.Stage)).
			Msg("job not stored yet, report will be redelivered")

		return false, nil
	default:
		return false, err
	}
}

// JobFinishedHandler delivers the callbacks of finished jobs.
type JobFinishedHandler struct {
	app *usecases.TrackerApplication
}

func NewJobFinishedHandler(app *usecases.TrackerApplication) *JobFinishedHandler {
	return &JobFinishedHandler{app: app}
}

func (h *JobFinishedHandler) Handle(ctx context.Context, msg domain.TripJobFinished) (bool, error) {
	if _, err := h.app.Commands.NotifyJobFinishedHandler.Handle(ctx, commands.NotifyJobFinishedCommand{Event: msg}); err != nil {
		return false, err
	}

	return true, nil
}
