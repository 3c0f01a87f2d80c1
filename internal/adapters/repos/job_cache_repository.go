package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

const jobCacheKeyPrefix = "trip_job:"

var _ ports.JobCacheRepository = (*JobCacheRepository)(nil)

type (
	cacheClient interface {
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte, expiry time.Duration) error
		Delete(ctx context.Context, keys ...string) error
	}

	JobCacheRepository struct {
		client cacheClient
		expiry time.Duration
	}

	cachedJob struct {
		Job     *domain.Job `json:"job"`
		Version int         `json:"version"`
	}
)

func NewJobCacheRepository(client *infrastructure.KeydbClient, expiry time.Duration) *JobCacheRepository {
	return newJobCacheRepository(client, expiry)
}

func newJobCacheRepository(client cacheClient, expiry time.Duration) *JobCacheRepository {
	return &JobCacheRepository{
		client: client,
		expiry: expiry,
	}
}

func (r *JobCacheRepository) Find(ctx context.Context, jobID string) (*domain.Job, error) {
	data, err := r.client.Get(ctx, jobCacheKey(jobID))
	if err != nil {
		if errors.Is(err, infrastructure.ErrCacheMiss) {
			return nil, domain.NewJobNotFoundError(jobID)
		}

		return nil, errors.Join(domain.ErrCacheUnavailable, err)
	}

	var cached cachedJob
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached job: %w", err)
	}

	if cached.Job == nil {
		return nil, domain.NewJobNotFoundError(jobID)
	}

	cached.Job.Version = cached.Version

	return cached.Job, nil
}

func (r *JobCacheRepository) Set(ctx context.Context, job *domain.Job) error {
	data, err := json.Marshal(cachedJob{Job: job, Version: job.Version})
	if err != nil {
		return fmt.Errorf("failed to marshal job for cache: %w", err)
	}

	if err := r.client.Set(ctx, jobCacheKey(job.ID.String()), data, r.expiry); err != nil {
		return errors.Join(domain.ErrCacheUnavailable, err)
	}

	return nil
}

func (r *JobCacheRepository) Delete(ctx context.Context, jobID string) error {
	if err := r.client.Delete(ctx, jobCacheKey(jobID)); err != nil {
		return errors.Join(domain.ErrCacheUnavailable, err)
	}

	return nil
}

func jobCacheKey(jobID string) string {
	return jobCacheKeyPrefix + jobID
}
