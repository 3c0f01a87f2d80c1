package runtime

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/vault/api"

	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/adapters/middleware"
	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
	"github.com/architeacher/svc-trip-planner/internal/usecases"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

type (
	Applications struct {
		Web     *usecases.WebApplication
		Tracker *usecases.TrackerApplication
	}

	ApplicationWorkers struct {
		StageTracker   ports.BackgroundProcessor
		CallbackSender ports.BackgroundProcessor
	}

	TracerShutdownFunc func(ctx context.Context) error

	QueueClients struct {
		PlanTrip      *queue.Client[domain.PlanTrip]
		StageReported *queue.Client[domain.JobStageReported]
		JobFinished   *queue.Client[domain.TripJobFinished]
		Notifications *queue.Client[domain.TripJobFinished]
	}

	InfrastructureDeps struct {
		HTTPServer          *http.Server
		SecretStorageClient *api.Client
		StorageClient       *infrastructure.Storage
		CacheClient         *infrastructure.KeydbClient
		Queues              QueueClients
		Metrics             infrastructure.Metrics
	}

	Repos struct {
		SecretStorageRepo ports.SecretsRepository
		JobRepo           ports.JobRepository
		JobCacheRepo      ports.JobCacheRepository
	}

	Dependencies struct {
		Apps    Applications
		Workers ApplicationWorkers

		cfg          *config.ServiceConfig
		configLoader *config.Loader

		logger infrastructure.Logger

		Infra InfrastructureDeps
		Repos Repos

		// connectionLost is closed by the first queue client that loses its
		// broker connection.
		connectionLost chan struct{}
		lostOnce       sync.Once

		tracerShutdownFunc TracerShutdownFunc
		secretVersion      uint
	}
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*Dependencies, error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, fmt.Errorf("unable to load service configuration: %w", err)
	}

	appLogger := infrastructure.New(config.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	appLogger.Info().Msg("initializing dependencies...")

	deps := &Dependencies{
		cfg:            cfg,
		logger:         appLogger,
		connectionLost: make(chan struct{}),
	}

	// Start with default options and append any additional options.
	options := append(defaultOptions(ctx), opts...)

	for _, opt := range options {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	deps.logger.Info().Msg("dependencies initialized successfully")

	return deps, nil
}

func initHTTPServer(
	cfg *config.ServiceConfig,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
	reqHandler handlers.ServerInterface,
	keyService ports.KeyService,
) (*http.Server, error) {
	logger.Info().Msg("creating HTTP server...")

	router := chi.NewRouter()

	middlewares, err := initMiddlewares(cfg, logger, metrics, keyService)
	if err != nil {
		return nil, err
	}

	router.Use(middleware.NewSecurityHeadersMiddleware().Middleware)

	if cfg.Telemetry.Metrics.Enabled {
		router.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	handlers.HandlerWithOptions(reqHandler, handlers.ChiServerOptions{
		BaseURL:          "",
		BaseRouter:       router,
		Middlewares:      middlewares,
		ErrorHandlerFunc: nil,
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, strconv.Itoa(cfg.HTTPServer.Port)),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	logger.Info().Str("addr", server.Addr).Msg("HTTP server created")

	return server, nil
}

// initMiddlewares returns the chain innermost first; the handlers package wraps
// them in order, so the last entry sees the request first.
func initMiddlewares(
	cfg *config.ServiceConfig,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
	keyService ports.KeyService,
) ([]handlers.MiddlewareFunc, error) {
	swagger, err := handlers.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("error loading API document: %w", err)
	}

	swagger.Servers = nil

	requestValidator, err := middleware.OapiRequestValidatorWithOptions(logger, swagger, &middleware.RequestValidatorOptions{
		Options: openapi3filter.Options{
			MultiError:         false,
			AuthenticationFunc: middleware.NewPasetoAuthenticationFunc(cfg.Auth, logger, keyService),
		},
		ErrorHandler:          middleware.RequestValidationErrHandler,
		SilenceServersWarning: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create request validator: %w", err)
	}

	middlewares := []handlers.MiddlewareFunc{
		requestValidator,
		middleware.NewPasetoAuthMiddleware(cfg.Auth, logger, keyService).Middleware,
		middleware.NewAPIVersionMiddleware(cfg.AppConfig.APIVersion, cfg.AppConfig.ServiceVersion).Middleware,
		chimiddleware.Timeout(cfg.HTTPServer.WriteTimeout),
	}

	if cfg.ThrottledRateLimiting.Enabled {
		rateLimitMiddleware, err := middleware.NewThrottledRateLimitingMiddleware(cfg.ThrottledRateLimiting, logger)
		if err != nil {
			return nil, err
		}

		middlewares = append(middlewares, rateLimitMiddleware.Middleware)
		logger.Info().Msg("rate limiting enabled")
	}

	if cfg.Logging.AccessLog.Enabled {
		accessLogger := middleware.NewAccessLogger(logger.Logger, cfg.Logging.AccessLog.IncludeQueryParams)
		healthFilter := middleware.NewHealthCheckFilter(cfg.Logging.AccessLog.LogHealthChecks)

		middlewares = append(middlewares, accessLogger.Middleware, healthFilter.Middleware)
		logger.Info().
			Bool("log_health_checks", cfg.Logging.AccessLog.LogHealthChecks).
			Msg("structured access logging enabled")
	}

	if cfg.Telemetry.Metrics.Enabled {
		metricsMiddleware := middleware.NewMetricsMiddleware(metrics)
		middlewares = append(middlewares, metricsMiddleware.Middleware)
		logger.Info().Msg("HTTP metrics collection enabled")
	}

	middlewares = append(middlewares,
		middleware.Tracer(),
		chimiddleware.Recoverer,
		chimiddleware.RealIP,
		chimiddleware.RequestID,
	)

	if cfg.Auth.Enabled {
		logger.Info().Strs("valid_issuers", cfg.Auth.ValidIssuers).Msg("authentication is enabled")
	}

	return middlewares, nil
}
