//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

import (
	"context"

	"github.com/architeacher/svc-trip-planner/internal/domain"
)

//counterfeiter:generate -o ../mocks/job_repository.go . JobRepository
//counterfeiter:generate -o ../mocks/job_cache_repository.go . JobCacheRepository

type (
	// Finder reads a job document.
	Finder interface {
		Find(ctx context.Context, jobID string) (*domain.Job, error)
	}

	// Saver stores a new job document.
	Saver interface {
		Save(ctx context.Context, job *domain.Job) error
	}

	// Updater replaces a job document guarded by its version.
	Updater interface {
		Update(ctx context.Context, job *domain.Job) error
	}

	// Deleter evicts a job document.
	Deleter interface {
		Delete(ctx context.Context, jobID string) error
	}

	Setter interface {
		Set(ctx context.Context, job *domain.Job) error
	}

	JobRepository interface {
		Finder
		Saver
		Updater
	}

	JobCacheRepository interface {
		Finder
		Setter
		Deleter
	}
)
