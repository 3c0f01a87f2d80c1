package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

type (
	TrackerService interface {
		TrackJobStage(ctx context.Context, report domain.JobStageReported) (*domain.TrackJobStageResult, error)
		NotifyJobFinished(ctx context.Context, msg domain.TripJobFinished) error
	}

	trackerService struct {
		jobRepo   ports.JobRepository
		cacheRepo ports.JobCacheRepository
		publisher ports.JobEventPublisher
		notifier  ports.CallbackNotifier
		logger    infrastructure.Logger
		metrics   infrastructure.Metrics
	}
)

func NewTrackerService(
	jobRepo ports.JobRepository,
	cacheRepo ports.JobCacheRepository,
	publisher ports.JobEventPublisher,
	notifier ports.CallbackNotifier,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
) TrackerService {
	return &trackerService{
		jobRepo:   jobRepo,
		cacheRepo: cacheRepo,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
	}
}

// TrackJobStage records a stage report. Reports for finished jobs and repeated
// reports leave the job untouched. Errors mean the report should be retried.
func (s *trackerService) TrackJobStage(
	ctx context.Context,
	report domain.JobStageReported,
) (*domain.TrackJobStageResult, error) {
	jobID := report.JobID.String()

	job, err := s.jobRepo.Find(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	changed, err := job.Apply(report)
	if err != nil {
		if errors.Is(err, domain.ErrJobAlreadyFinished) {
			return s.trackFinishedJob(ctx, job, report)
		}

		return nil, err
	}

	s.metrics.RecordStageReport(ctx, string(report.Stage), changed)

	if !changed {
		return &domain.TrackJobStageResult{Job: job}, nil
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	if err := s.cacheRepo.Delete(ctx, jobID); err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("failed to invalidate cached job")
	}

	result := &domain.TrackJobStageResult{
		Job:      job,
		Changed:  true,
		Finished: job.Status.Terminal(),
	}

	s.logger.Info().
		Str("job_id", jobID).
		Str("stage", string(report.Stage)).
		Bool("succeeded", report.Succeeded).
		Str("status", string(job.Status)).
		Msg("stage report applied")

	if !result.Finished {
		return result, nil
	}

	s.metrics.RecordJobFinished(ctx, string(job.Status), job.CompletedAt.Sub(job.CreatedAt))

	if err := s.publishFinished(ctx, job); err != nil {
		return nil, err
	}

	return result, nil
}

// trackFinishedJob handles a report arriving after the job finished. A report of
// a stage the job already recorded may be the redelivery of the one that
// finished it, after publishing the outcome failed, so the outcome is published
// again. Consumers of TripJobFinished see it at least once.
func (s *trackerService) trackFinishedJob(
	ctx context.Context,
	job *domain.Job,
	report domain.JobStageReported,
) (*domain.TrackJobStageResult, error) {
	result := &domain.TrackJobStageResult{Job: job}

	if _, recorded := job.Stages[report.Stage]; !recorded {
		s.logger.Debug().
			Str("job_id", job.ID.String()).
			Str("stage", string(report.Stage)).
			Msg("ignoring stage report for finished job")

		return result, nil
	}

	if err := s.publishFinished(ctx, job); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *trackerService) publishFinished(ctx context.Context, job *domain.Job) error {
	if err := s.publisher.PublishFinished(ctx, job.Finished()); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to publish finished job")

		return fmt.Errorf("failed to publish finished job %s: %w", job.ID, err)
	}

	return nil
}

// NotifyJobFinished calls back the requester of a finished job. Callbacks that
// are invalid or refused are dropped, everything else is returned for a retry.
func (s *trackerService) NotifyJobFinished(ctx context.Context, msg domain.TripJobFinished) error {
	err := s.notifier.Notify(ctx, msg)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrCallbackRejected), errors.Is(err, domain.ErrInvalidCallbackURL):
		s.logger.Warn().
			Err(err).
			Str("job_id", msg.JobID.String()).
			Msg("dropping callback that cannot be delivered")

		return nil
	default:
		return fmt.Errorf("failed to notify job %s: %w", msg.JobID, err)
	}
}
