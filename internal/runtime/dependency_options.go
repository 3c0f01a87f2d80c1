package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"github.com/architeacher/svc-trip-planner/internal/adapters"
	"github.com/architeacher/svc-trip-planner/internal/adapters/http"
	"github.com/architeacher/svc-trip-planner/internal/adapters/queue"
	"github.com/architeacher/svc-trip-planner/internal/adapters/repos"
	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/service"
	"github.com/architeacher/svc-trip-planner/internal/usecases"
)

type (
	DependencyOption func(*Dependencies) error
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithSecretStorage(),
		WithSecretStorageRepo(),
		WithConfigLoader(ctx),
		WithStorage(),
		WithCache(ctx),
		WithDataRepos(),
		WithMetrics(ctx),
		WithTracing(ctx),
	}
}

// WithSecretStorage initializes the Vault client using ENV config.
func WithSecretStorage() DependencyOption {
	return func(d *Dependencies) error {
		cfg := d.cfg.SecretStorage

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = cfg.Address
		vaultConfig.Timeout = cfg.Timeout
		vaultConfig.MaxRetries = cfg.MaxRetries

		if cfg.TLSSkipVerify {
			tlsConfig := &api.TLSConfig{
				Insecure: true,
			}
			if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to configure TLS: %w", err)
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("failed to create Vault client: %w", err)
		}

		// Dev mode Vault has no namespaces.
		if cfg.Namespace != "" {
			client.SetNamespace(cfg.Namespace)
		}

		d.Infra.SecretStorageClient = client

		return nil
	}
}

func WithSecretStorageRepo() DependencyOption {
	return func(d *Dependencies) error {
		d.Repos.SecretStorageRepo = repos.NewVaultRepository(d.Infra.SecretStorageClient)

		return nil
	}
}

func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		d.configLoader = config.NewLoader(d.cfg, d.Repos.SecretStorageRepo, d.secretVersion)

		if !d.cfg.SecretStorage.Enabled {
			d.logger.Info().Msg("secret storage is disabled, skipping vault configuration loading")

			return nil
		}

		version, err := d.configLoader.Load(ctx, d.Repos.SecretStorageRepo, d.cfg)
		if err != nil {
			return fmt.Errorf("unable to load service configuration: %w", err)
		}

		d.secretVersion = version

		return nil
	}
}

// WithStorage opens the Postgres connection pool.
func WithStorage() DependencyOption {
	return func(d *Dependencies) error {
		storage, err := infrastructure.NewStorage(d.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}

		if _, err := storage.GetDB(); err != nil {
			return fmt.Errorf("failed to get database connection: %w", err)
		}

		d.Infra.StorageClient = storage

		return nil
	}
}

// WithCache keeps the client even when KeyDB is not reachable yet; lookups
// then fall through to Postgres and the health report shows the cache down.
func WithCache(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		cacheClient := infrastructure.NewKeyDBClient(d.cfg.Cache, d.logger)

		cacheCtx, cancel := context.WithTimeout(ctx, d.cfg.Cache.DialTimeout)
		defer cancel()

		if err := cacheClient.Ping(cacheCtx); err != nil {
			d.logger.Error().Err(err).Msg("failed to connect to cache, continuing without cache")
		} else {
			d.logger.Info().Msg("cache connection established")
		}

		d.Infra.CacheClient = cacheClient

		return nil
	}
}

func WithDataRepos() DependencyOption {
	return func(d *Dependencies) error {
		db, err := d.Infra.StorageClient.GetDB()
		if err != nil {
			return fmt.Errorf("failed to get database connection: %w", err)
		}

		d.Repos.JobRepo = repos.NewJobRepository(db)
		d.Repos.JobCacheRepo = repos.NewJobCacheRepository(d.Infra.CacheClient, d.cfg.Cache.DefaultExpiry)

		return nil
	}
}

// WithMigrations applies the job schema. Only the HTTP service runs it.
func WithMigrations(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		db, err := d.Infra.StorageClient.GetDB()
		if err != nil {
			return fmt.Errorf("failed to get database connection: %w", err)
		}

		migrateCtx, cancel := context.WithTimeout(ctx, d.cfg.Storage.QueryTimeout)
		defer cancel()

		if err := repos.NewJobRepository(db).Migrate(migrateCtx); err != nil {
			return err
		}

		d.logger.Info().Msg("job schema is up to date")

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		metrics, err := infrastructure.NewMetrics(ctx, *d.cfg, d.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}

		d.Infra.Metrics = metrics

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		if !d.cfg.Telemetry.Traces.Enabled {
			d.tracerShutdownFunc = func(_ context.Context) error {
				return nil
			}

			return nil
		}

		tracerShutdownFunc, err := infrastructure.InitGlobalTracer(ctx, d.cfg.Telemetry, d.cfg.AppConfig)
		if err != nil {
			d.logger.Error().Err(err).Msg("failed to initialize global tracer")

			return err
		}

		d.tracerShutdownFunc = tracerShutdownFunc

		return nil
	}
}

// WithDispatcher creates the work-queue client the HTTP service sends plan
// requests through.
func WithDispatcher() DependencyOption {
	return func(d *Dependencies) error {
		client, err := infrastructure.NewQueueClient[domain.PlanTrip](
			d.cfg.Queue,
			infrastructure.QueueClientSpec{OnConnectionLost: d.onConnectionLost()},
			d.logger,
			d.Infra.Metrics,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize plan dispatcher: %w", err)
		}

		d.Infra.Queues.PlanTrip = client

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *Dependencies) error {
		if d.Infra.Queues.PlanTrip == nil {
			if err := WithDispatcher()(d); err != nil {
				return err
			}
		}

		healthChecker := adapters.NewHealthChecker(
			d.Infra.StorageClient,
			d.Infra.CacheClient,
			d.Infra.Queues.PlanTrip,
			d.cfg.Storage.ConnectTimeout,
		)

		appService := service.NewApplicationService(
			d.Repos.JobRepo,
			d.Repos.JobCacheRepo,
			queue.NewTripDispatcher(d.Infra.Queues.PlanTrip),
			healthChecker,
			d.cfg.Backoff,
			d.logger,
			d.Infra.Metrics,
		)

		d.Apps.Web = usecases.NewWebApplication(
			appService,
			d.logger,
			otel.GetTracerProvider(),
			adapters.NewMetricsAdapter(d.Infra.Metrics),
		)

		pasetoKeyService := infrastructure.NewPasetoKeyService(
			d.cfg.Auth,
			d.Repos.SecretStorageRepo,
			d.logger,
		)

		requestHandler := http.NewRequestHandler(d.Apps.Web, d.logger, d.cfg.AppConfig.ServiceVersion)

		httpServer, err := initHTTPServer(d.cfg, d.logger, d.Infra.Metrics, requestHandler, pasetoKeyService)
		if err != nil {
			return fmt.Errorf("failed to initialize HTTP server: %w", err)
		}

		d.Infra.HTTPServer = httpServer

		return nil
	}
}

// WithTracker wires the durable stage report subscription and the publisher
// of finished jobs.
func WithTracker() DependencyOption {
	return func(d *Dependencies) error {
		stageClient, err := infrastructure.NewQueueClient[domain.JobStageReported](
			d.cfg.Queue,
			infrastructure.QueueClientSpec{
				Group:            d.cfg.Tracker.Group,
				RedeliveryDelay:  d.cfg.Tracker.RedeliveryDelay,
				OnConnectionLost: d.onConnectionLost(),
			},
			d.logger,
			d.Infra.Metrics,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize stage report client: %w", err)
		}

		finishedClient, err := infrastructure.NewQueueClient[domain.TripJobFinished](
			d.cfg.Queue,
			infrastructure.QueueClientSpec{OnConnectionLost: d.onConnectionLost()},
			d.logger,
			d.Infra.Metrics,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize finished job client: %w", err)
		}

		d.Infra.Queues.StageReported = stageClient
		d.Infra.Queues.JobFinished = finishedClient

		trackerService := service.NewTrackerService(
			d.Repos.JobRepo,
			d.Repos.JobCacheRepo,
			queue.NewJobEventPublisher(finishedClient),
			adapters.NewCallbackNotifier(d.cfg.Notifier, d.logger, d.Infra.Metrics),
			d.logger,
			d.Infra.Metrics,
		)

		d.Apps.Tracker = usecases.NewTrackerApplication(
			trackerService,
			d.logger,
			otel.GetTracerProvider(),
			adapters.NewMetricsAdapter(d.Infra.Metrics),
		)

		d.Workers.StageTracker = queue.NewSubscription[domain.JobStageReported](
			stageClient,
			false,
			queue.NewStageReportHandler(d.Apps.Tracker, d.logger).Handle,
			d.logger,
		)

		return nil
	}
}

// WithNotifier subscribes to finished jobs under its own group and posts the
// callbacks. It needs WithTracker first.
func WithNotifier() DependencyOption {
	return func(d *Dependencies) error {
		if !d.cfg.Notifier.Enabled {
			d.logger.Info().Msg("callback notifier is disabled")

			return nil
		}

		if d.Apps.Tracker == nil {
			return errors.New("callback notifier requires the tracker application")
		}

		client, err := infrastructure.NewQueueClient[domain.TripJobFinished](
			d.cfg.Queue,
			infrastructure.QueueClientSpec{
				Group:            d.cfg.Notifier.Group,
				RedeliveryDelay:  d.cfg.Notifier.RedeliveryDelay,
				OnConnectionLost: d.onConnectionLost(),
			},
			d.logger,
			d.Infra.Metrics,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize notification client: %w", err)
		}

		d.Infra.Queues.Notifications = client
		d.Workers.CallbackSender = queue.NewSubscription[domain.TripJobFinished](
			client,
			false,
			queue.NewJobFinishedHandler(d.Apps.Tracker).Handle,
			d.logger,
		)

		return nil
	}
}

// onConnectionLost returns the hook handed to every queue client. The clients
// do not reconnect, so the process shuts down and lets the orchestrator
// restart it.
func (d *Dependencies) onConnectionLost() func(*amqp.Error) {
	return func(err *amqp.Error) {
		d.logger.Error().Err(err).Msg("broker connection lost")

		d.lostOnce.Do(func() {
			close(d.connectionLost)
		})
	}
}
