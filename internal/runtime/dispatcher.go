package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// ServiceCtx runs the trip planner HTTP API.
type ServiceCtx struct {
	deps *Dependencies

	shutdownChannel chan os.Signal

	serverCtx      context.Context
	serverStopFunc context.CancelFunc

	serverReady chan struct{}
}

func New(opt ...ServiceOption) *ServiceCtx {
	if len(opt) != 0 {
		sCtx := ServiceCtx{}

		for i := range opt {
			opt[i](&sCtx)
		}

		if sCtx.shutdownChannel == nil {
			sCtx.shutdownChannel = make(chan os.Signal, 1)
		}

		return &sCtx
	}

	return &ServiceCtx{
		shutdownChannel: make(chan os.Signal, 1),
	}
}

func (c *ServiceCtx) Run() {
	c.build()
	c.startService()
	c.monitorConfigChanges()
	c.shutdownHook()
	c.shutdown()
}

func (c *ServiceCtx) build() {
	c.serverCtx, c.serverStopFunc = context.WithCancel(context.Background())

	deps, err := initializeDependencies(
		c.serverCtx,
		WithMigrations(c.serverCtx),
		WithDispatcher(),
		WithHTTPServer(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	c.deps = deps
}

func (c *ServiceCtx) startService() {
	go func() {
		c.deps.logger.Info().
			Str("address", c.deps.Infra.HTTPServer.Addr).
			Str("version", c.deps.cfg.AppConfig.ServiceVersion).
			Msg("service starting up")

		if c.serverReady != nil {
			c.serverReady <- struct{}{}
		}

		if err := c.deps.Infra.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.deps.logger.Error().Err(err).Msg("unable to start http server")
			c.serverStopFunc()
		}
	}()
}

func (c *ServiceCtx) shutdownHook() {
	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
}

func (c *ServiceCtx) monitorConfigChanges() {
	watchConfig(c.serverCtx, c.deps)
}

func (c *ServiceCtx) shutdown() {
	select {
	case <-c.serverCtx.Done():
	case <-c.deps.connectionLost:
		c.deps.logger.Error().Msg("dispatcher lost its broker connection")
	case <-c.shutdownChannel:
		defer close(c.shutdownChannel)
	}

	c.deps.logger.Info().Msg("received shutdown signal")

	c.serverStopFunc()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.deps.cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	forceExitOnTimeout(shutdownCtx, c.deps)

	c.cleanup(shutdownCtx)

	c.deps.logger.Info().Msg("HTTP server shutdown completed")
}

// WaitForServer blocks until the http server is running.
// If you want to be notified when the server is running,
// make sure you instantiate your server with WithWaitingForServer.
//
// Example:
//
//	srv := runtime.New(WithWaitingForServer())
//	go func() {
//		srv.Run()
//	}()
//
//	srv.WaitForServer()
func (c *ServiceCtx) WaitForServer() {
	if c.serverReady != nil {
		<-c.serverReady
		close(c.serverReady)
	}
}

func (c *ServiceCtx) cleanup(shutdownCtx context.Context) {
	c.deps.logger.Info().Msg("cleaning up resources...")

	// Stop taking requests before the dispatcher goes away.
	if err := c.deps.Infra.HTTPServer.Shutdown(shutdownCtx); err != nil {
		c.deps.logger.Error().Err(err).Msg("unable to gracefully shutdown http server")
	}

	if c.deps.Infra.Queues.PlanTrip != nil {
		if err := c.deps.Infra.Queues.PlanTrip.Close(); err != nil {
			c.deps.logger.Error().Err(err).Msg("failed to close plan dispatcher")
		}
	}

	releaseInfrastructure(shutdownCtx, c.deps)

	c.deps.logger.Info().Msg("cleanup completed")
}

func watchConfig(ctx context.Context, deps *Dependencies) {
	reloadErrors := deps.configLoader.WatchConfigSignals(ctx)

	go func() {
		for err := range reloadErrors {
			if err != nil {
				deps.logger.Error().Err(err).Msg("failed to reload config")

				continue
			}

			deps.logger.Info().Msg("config reloaded successfully")
		}

		deps.logger.Info().Msg("stopping config monitor")
	}()
}

func forceExitOnTimeout(shutdownCtx context.Context, deps *Dependencies) {
	go func() {
		<-shutdownCtx.Done()

		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			deps.logger.Error().Msg("graceful shutdown timed out.. forcing exit.")
			os.Exit(1)
		}
	}()
}

// releaseInfrastructure closes what every process shares.
func releaseInfrastructure(ctx context.Context, deps *Dependencies) {
	if deps.Infra.CacheClient != nil {
		if err := deps.Infra.CacheClient.Close(); err != nil {
			deps.logger.Error().Err(err).Msg("failed to close cache connection")
		}
	}

	if deps.Infra.StorageClient != nil {
		if err := deps.Infra.StorageClient.Close(); err != nil {
			deps.logger.Error().Err(err).Msg("failed to close storage connection")
		}
	}

	if deps.Infra.Metrics != nil {
		if err := deps.Infra.Metrics.Shutdown(ctx); err != nil {
			deps.logger.Error().Err(err).Msg("failed to flush metrics")
		}
	}

	if deps.tracerShutdownFunc != nil {
		if err := deps.tracerShutdownFunc(ctx); err != nil {
			deps.logger.Error().Err(err).Msg("failed to flush traces")
		}
	}
}
