package repos

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

const jobTable = "trip_jobs"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	//go:embed schema.sql
	schema string

	_ ports.JobRepository = (*JobRepository)(nil)
)

type (
	// JobRepository keeps each job as a JSONB document guarded by lock_version.
	JobRepository struct {
		conn *sqlx.DB
	}

	jobRow struct {
		Document    []byte `db:"document"`
		LockVersion int    `db:"lock_version"`
	}
)

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{
		conn: db,
	}
}

// Migrate creates the job table when it does not exist yet.
func (r *JobRepository) Migrate(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply job schema: %w", err)
	}

	return nil
}

func (r *JobRepository) Find(ctx context.Context, jobID string) (*domain.Job, error) {
	query, args, err := psql.Select("document", "lock_version").
		From(jobTable).
		Where(sq.Eq{"id": jobID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var row jobRow
	if err := r.conn.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewJobNotFoundError(jobID)
		}

		return nil, fmt.Errorf("failed to query job: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal(row.Document, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job document: %w", err)
	}

	job.Version = row.LockVersion

	return &job, nil
}

func (r *JobRepository) Save(ctx context.Context, job *domain.Job) error {
	document, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job document: %w", err)
	}

	query, args, err := psql.Insert(jobTable).
		Columns("id", "status", "document", "created_at", "updated_at").
		Values(job.ID, job.Status, document, job.CreatedAt, job.UpdatedAt).
		Suffix("RETURNING lock_version").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	var version int
	if err := r.conn.GetContext(ctx, &version, query, args...); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	job.Version = version

	return nil
}

// Update replaces the job document when its version still matches the stored one.
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	document, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job document: %w", err)
	}

	query, args, err := psql.Update(jobTable).
		Set("status", job.Status).
		Set("document", document).
		Set("updated_at", job.UpdatedAt).
		Set("lock_version", sq.Expr("lock_version + 1")).
		Where(sq.Eq{"id": job.ID, "lock_version": job.Version}).
		Suffix("RETURNING lock_version").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	var version int
	if err := r.conn.GetContext(ctx, &version, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.conflict(ctx, job)
		}

		return fmt.Errorf("failed to update job: %w", err)
	}

	job.Version = version

	return nil
}

// conflict tells a missing job apart from a stale version.
func (r *JobRepository) conflict(ctx context.Context, job *domain.Job) error {
	stored, err := r.Find(ctx, job.ID.String())
	if err != nil {
		return err
	}

	return domain.NewConcurrentModificationError(job.ID.String(), job.Version, stored.Version)
}
