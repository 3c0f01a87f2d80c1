package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/architeacher/svc-trip-planner/internal/config"
)

const postgresDriver = "postgres"

// Storage owns the Postgres connection pool holding the job documents.
type Storage struct {
	cfg config.StorageConfig

	once sync.Once
	db   *sqlx.DB
	err  error
}

func NewStorage(cfg config.StorageConfig) (*Storage, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("postgres host and database are required")
	}

	return &Storage{cfg: cfg}, nil
}

// GetDB opens the pool on first use and verifies the server answers.
func (s *Storage) GetDB() (*sqlx.DB, error) {
	s.once.Do(func() {
		db, err := sqlx.Open(postgresDriver, s.DSN())
		if err != nil {
			s.err = fmt.Errorf("failed to open postgres connection: %w", err)

			return
		}

		db.SetMaxOpenConns(s.cfg.MaxOpenConns)
		db.SetMaxIdleConns(s.cfg.MaxIdleConns)
		db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)
		db.SetConnMaxIdleTime(s.cfg.ConnMaxIdleTime)

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ConnectTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			s.err = fmt.Errorf("failed to reach postgres: %w", err)

			return
		}

		s.db = db
	})

	return s.db, s.err
}

func (s *Storage) Ping(ctx context.Context) error {
	db, err := s.GetDB()
	if err != nil {
		return err
	}

	return db.PingContext(ctx)
}

// DSN renders the lib/pq key/value connection string.
func (s *Storage) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password='%s' sslmode=%s connect_timeout=%d",
		s.cfg.Host,
		s.cfg.Port,
		s.cfg.Database,
		s.cfg.Username,
		s.cfg.Password,
		s.cfg.SSLMode,
		int(s.cfg.ConnectTimeout.Seconds()),
	)
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
