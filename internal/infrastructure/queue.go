package infrastructure

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

// QueueClientSpec describes one typed queue client of a process.
type QueueClientSpec struct {
	// Group overrides RABBITMQ_SUBSCRIBER_GROUP for durable subscriptions.
	Group string
	// RedeliveryDelay overrides RABBITMQ_REDELIVERY_DELAY_MS when positive.
	RedeliveryDelay time.Duration
	// OnConnectionLost is called once the broker drops the connection.
	OnConnectionLost func(*amqp.Error)
}

// NewQueueClient builds a queue client for messages of type T wired to the
// service logger and metrics.
func NewQueueClient[T any](
	cfg config.QueueConfig,
	spec QueueClientSpec,
	logger Logger,
	metrics queue.MetricsRecorder,
) (*queue.Client[T], error) {
	clientCfg := cfg.ClientConfig(spec.Group, spec.RedeliveryDelay)
	clientCfg.OnConnectionLost = spec.OnConnectionLost

	opts := []queue.ClientOption{
		queue.WithLogger(logger.QueueLogger()),
		queue.WithMetrics(metrics),
	}

	if cfg.ConfirmTimeout > 0 {
		opts = append(opts, queue.WithConfirmTimeout(cfg.ConfirmTimeout))
	}

	client, err := queue.NewClient[T](clientCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue client: %w", err)
	}

	logger.Info().
		Str("message_type", client.MessageType()).
		Strs("nodes", cfg.Nodes).
		Str("subscriber_group", clientCfg.SubscriberGroup).
		Dur("redelivery_delay", clientCfg.RedeliveryDelay).
		Msg("queue client created")

	return client, nil
}
