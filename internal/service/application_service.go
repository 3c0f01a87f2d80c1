package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
	"github.com/architeacher/svc-trip-planner/internal/shared/backoff"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

const maxPlaceLength = 200

type (
	ApplicationService interface {
		SubmitTrip(ctx context.Context, req domain.TripRequest) (*domain.Job, error)
		FetchJob(ctx context.Context, jobID string) (*domain.Job, error)
		FetchHealthReport(ctx context.Context) (*domain.HealthResult, error)
	}

	appService struct {
		jobRepo       ports.JobRepository
		cacheRepo     ports.JobCacheRepository
		dispatcher    ports.TripDispatcher
		healthChecker ports.HealthChecker
		backoff       backoff.Strategy
		maxAttempts   int
		logger        infrastructure.Logger
		metrics       infrastructure.Metrics
		now           func() time.Time
	}
)

func NewApplicationService(
	jobRepo ports.JobRepository,
	cacheRepo ports.JobCacheRepository,
	dispatcher ports.TripDispatcher,
	healthChecker ports.HealthChecker,
	backoffConfig config.BackoffConfig,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
) ApplicationService {
	return &appService{
		jobRepo:       jobRepo,
		cacheRepo:     cacheRepo,
		dispatcher:    dispatcher,
		healthChecker: healthChecker,
		backoff:       backoff.NewExponentialStrategy(backoffConfig),
		maxAttempts:   backoffConfig.MaxAttempts,
		logger:        logger,
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SubmitTrip stores a pending job and hands it to the route planner. A job that
// cannot be dispatched after every attempt is stored as failed.
func (s *appService) SubmitTrip(ctx context.Context, req domain.TripRequest) (*domain.Job, error) {
	req, err := normalizeTripRequest(req)
	if err != nil {
		s.metrics.RecordJobSubmitted(ctx, false, "validation")

		return nil, err
	}

	job := domain.NewJob(req, s.now())

	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.metrics.RecordJobSubmitted(ctx, false, "storage")

		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	msg := domain.NewPlanTrip(job)

	attempts, err := backoff.Retry(ctx, s.backoff, s.maxAttempts, func(ctx context.Context) error {
		err := s.dispatcher.Dispatch(ctx, msg)
		if isFatalDispatchError(err) {
			return backoff.Permanent(err)
		}

		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("job_id", job.ID.String()).
			Int("attempts", attempts).
			Msg("failed to dispatch trip")

		s.failUndispatched(ctx, job, err)
		s.metrics.RecordJobSubmitted(ctx, false, "dispatch")

		return nil, domain.NewDispatchFailedError(job.ID.String(), attempts, err)
	}

	if cacheErr := s.cacheRepo.Set(ctx, job); cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Str("job_id", job.ID.String()).Msg("failed to save job to the cache")
	}

	s.metrics.RecordJobSubmitted(ctx, true, "")
	s.logger.Info().
		Str("job_id", job.ID.String()).
		Int("attempts", attempts).
		Msg("trip job submitted")

	return job, nil
}

// isFatalDispatchError reports broker misconfiguration and dead clients, which
// another attempt cannot fix.
func isFatalDispatchError(err error) bool {
	return queue.IsConfigurationError(err) ||
		errors.Is(err, queue.ErrClientClosed) ||
		errors.Is(err, queue.ErrConnectionLost)
}

func (s *appService) failUndispatched(ctx context.Context, job *domain.Job, cause error) {
	job.Fail(fmt.Sprintf("dispatch failed: %v", cause), s.now())

	// The request context may be the reason dispatching failed.
	ctx = context.WithoutCancel(ctx)

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to mark undispatched job as failed")
	}
}

func (s *appService) FetchJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.cacheRepo.Find(ctx, jobID)
	if err == nil {
		return job, nil
	}

	if !errors.Is(err, domain.ErrJobNotFound) {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("job cache lookup failed")
	}

	job, err = s.jobRepo.Find(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	if cacheErr := s.cacheRepo.Set(ctx, job); cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Str("job_id", jobID).Msg("failed to save job to the cache")
	}

	return job, nil
}

func (s *appService) FetchHealthReport(ctx context.Context) (*domain.HealthResult, error) {
	return s.healthChecker.CheckHealth(ctx), nil
}

func normalizeTripRequest(req domain.TripRequest) (domain.TripRequest, error) {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)

	switch {
	case req.Origin == "":
		return req, domain.NewInvalidTripRequestError("origin", "must not be empty")
	case req.Destination == "":
		return req, domain.NewInvalidTripRequestError("destination", "must not be empty")
	case len(req.Origin) > maxPlaceLength:
		return req, domain.NewInvalidTripRequestError("origin", fmt.Sprintf("must not exceed %d characters", maxPlaceLength))
	case len(req.Destination) > maxPlaceLength:
		return req, domain.NewInvalidTripRequestError("destination", fmt.Sprintf("must not exceed %d characters", maxPlaceLength))
	case strings.EqualFold(req.Origin, req.Destination):
		return req, domain.NewInvalidTripRequestError("destination", "must differ from origin")
	}

	email, err := domain.NewEmailAddress(req.Email)
	if err != nil {
		return req, domain.NewInvalidTripRequestError("email", "must be a valid address")
	}

	req.Email = email.String()

	if req.CallbackURL != "" {
		callbackURL, err := domain.NewCallbackURL(req.CallbackURL)
		if err != nil {
			return req, domain.NewInvalidTripRequestError("callback_url", "must be an absolute http or https URL")
		}

		req.CallbackURL = callbackURL.String()
	}

	return req, nil
}
