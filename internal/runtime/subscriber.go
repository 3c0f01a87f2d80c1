package runtime

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/architeacher/svc-trip-planner/internal/ports"
)

// SubscriberCtx runs the job tracker: the durable stage report subscription
// and, when enabled, the callback notifier.
type SubscriberCtx struct {
	deps *Dependencies

	shutdownChannel chan os.Signal

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSubscriber(opt ...SubscriberOption) *SubscriberCtx {
	sCtx := &SubscriberCtx{}

	for i := range opt {
		opt[i](sCtx)
	}

	if sCtx.shutdownChannel == nil {
		sCtx.shutdownChannel = make(chan os.Signal, 1)
	}

	return sCtx
}

func (c *SubscriberCtx) Run() {
	c.build()
	c.start()
	watchConfig(c.ctx, c.deps)
	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
	c.shutdown()
}

func (c *SubscriberCtx) build() {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	deps, err := initializeDependencies(c.ctx, WithTracker(), WithNotifier())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	c.deps = deps
}

func (c *SubscriberCtx) start() {
	for _, processor := range c.processors() {
		if err := processor.Start(c.ctx); err != nil {
			c.deps.logger.Error().Err(err).Msg("failed to start subscription")
			c.cancel()

			return
		}
	}

	c.deps.logger.Info().
		Str("tracker_group", c.deps.cfg.Tracker.Group).
		Bool("notifier_enabled", c.deps.Workers.CallbackSender != nil).
		Msg("job tracker started")
}

func (c *SubscriberCtx) processors() []ports.BackgroundProcessor {
	processors := make([]ports.BackgroundProcessor, 0, 2)

	if c.deps.Workers.StageTracker != nil {
		processors = append(processors, c.deps.Workers.StageTracker)
	}

	if c.deps.Workers.CallbackSender != nil {
		processors = append(processors, c.deps.Workers.CallbackSender)
	}

	return processors
}

// consumersDone is closed once any subscription stops dispatching. Before shutdown
// that only happens when the broker cancelled a consumer.
func (c *SubscriberCtx) consumersDone() <-chan struct{} {
	var subscriptions []<-chan struct{}

	if q := c.deps.Infra.Queues.StageReported; q != nil {
		subscriptions = append(subscriptions, q.Done())
	}

	if q := c.deps.Infra.Queues.Notifications; q != nil {
		subscriptions = append(subscriptions, q.Done())
	}

	merged := make(chan struct{})

	var once sync.Once

	for _, done := range subscriptions {
		go func() {
			select {
			case <-done:
				once.Do(func() { close(merged) })
			case <-c.ctx.Done():
			}
		}()
	}

	return merged
}

func (c *SubscriberCtx) shutdown() {
	select {
	case <-c.ctx.Done():
	case <-c.deps.connectionLost:
		c.deps.logger.Error().Msg("job tracker lost its broker connection")
	case <-c.consumersDone():
		c.deps.logger.Error().Msg("job tracker subscription stopped consuming")
	case <-c.shutdownChannel:
		defer close(c.shutdownChannel)
	}

	c.deps.logger.Info().Msg("received shutdown signal")

	c.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.deps.cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	forceExitOnTimeout(shutdownCtx, c.deps)

	// Unacknowledged deliveries go back to their queues.
	for _, processor := range c.processors() {
		if err := processor.Shutdown(); err != nil {
			c.deps.logger.Error().Err(err).Msg("failed to stop subscription")
		}
	}

	if c.deps.Infra.Queues.JobFinished != nil {
		if err := c.deps.Infra.Queues.JobFinished.Close(); err != nil {
			c.deps.logger.Error().Err(err).Msg("failed to close finished job publisher")
		}
	}

	releaseInfrastructure(shutdownCtx, c.deps)

	c.deps.logger.Info().Msg("job tracker shutdown completed")
}
