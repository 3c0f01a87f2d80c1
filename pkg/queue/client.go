package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Client sends, publishes and consumes messages of type T.
//
// A client owns one connection and one channel, both created by the first operation.
// It commits to either a work queue (Send, StartReceiving) or a subscription
// (StartSubscribing) and refuses to mix them. Publish is available in both modes.
type Client[T any] struct {
	cfg      Config
	options  clientOptions
	typeName string
	logger   Logger

	mutex            sync.Mutex
	state            State
	mode             mode
	exchangeDeclared bool
	queueName        string

	conn connection
	ch   channel

	consumerTag  string
	stopOnCancel func() bool
	dispatching  bool
	done         chan struct{}

	lost atomic.Bool
}

// NewClient creates a client for messages of type T. No broker call is made until the first operation.
func NewClient[T any](cfg Config, opts ...ClientOption) (*Client[T], error) {
	options := defaultClientOptions()
	for _, opt := range opts {
		opt(&options)
	}

	typeName := options.typeName
	if typeName == "" {
		name, err := TypeName[T]()
		if err != nil {
			return nil, err
		}

		typeName = name
	}

	if len(cfg.nodes()) == 0 {
		return nil, ErrNoBrokerNodes
	}

	return &Client[T]{
		cfg:          cfg,
		options:      options,
		typeName:     typeName,
		logger:       typedLogger{logger: options.logger, typeName: typeName},
		queueName:    typeName,
		stopOnCancel: func() bool { return false },
		done:         make(chan struct{}),
	}, nil
}

// MessageType returns the name used for the work queue and the fan-out exchange.
func (c *Client[T]) MessageType() string {
	return c.typeName
}

// QueueName returns the queue the client consumes from. It is the message type name
// until a subscription resolves it to a group or broker assigned name.
func (c *Client[T]) QueueName() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.queueName
}

// State returns the current lifecycle state.
func (c *Client[T]) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.state
}

// ConnectionLost reports whether the broker closed the connection under the client.
func (c *Client[T]) ConnectionLost() bool {
	return c.lost.Load()
}

// Done is closed once the consumer stopped dispatching, or on Close when no consumer was started.
func (c *Client[T]) Done() <-chan struct{} {
	return c.done
}

// Send delivers msg point-to-point through the work queue and waits for the broker confirmation.
func (c *Client[T]) Send(ctx context.Context, msg T) error {
	ch, err := c.ensureWorkQueue()
	if err != nil {
		return err
	}

	return c.publish(ctx, ch, ModeSend, "", c.typeName, msg)
}

// Publish fans msg out to every subscription of the message type and waits for the broker confirmation.
//
// A positive confirmation only means the broker accepted the message. A broker crash
// before the message reached disk can still lose it.
func (c *Client[T]) Publish(ctx context.Context, msg T) error {
	ch, err := c.ensureExchange()
	if err != nil {
		return err
	}

	return c.publish(ctx, ch, ModePublish, c.typeName, RoutingKeyAll, msg)
}

// StartReceiving consumes the work queue. The handler runs on a dispatcher goroutine
// until Stop, Close or the cancellation of ctx.
func (c *Client[T]) StartReceiving(ctx context.Context, handler Handler[T]) error {
	if handler == nil {
		return ErrNilHandler
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.canConsume(); err != nil {
		return err
	}

	if c.mode == modeSubscription {
		return ErrWorkQueueAfterSubscribe
	}

	ch, err := c.declareWorkQueue()
	if err != nil {
		return err
	}

	// Work queues carry no dead-letter arguments, a rejected message must go back to the queue.
	return c.startConsuming(ctx, ch, handler, true)
}

// StartSubscribing consumes a subscription of the fan-out exchange.
//
// A transient subscription uses an exclusive queue removed with the connection. A durable
// one uses the queue of Config.SubscriberGroup, shared by every process of the group, and
// redelivers rejected messages after Config.RedeliveryDelay when it is set.
func (c *Client[T]) StartSubscribing(ctx context.Context, transient bool, handler Handler[T]) error {
	if handler == nil {
		return ErrNilHandler
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.canConsume(); err != nil {
		return err
	}

	if c.mode == modeWorkQueue {
		return ErrSubscribeAfterWorkQueue
	}

	t, err := subscriptionTopology(c.typeName, transient, c.cfg.SubscriberGroup, c.cfg.RedeliveryDelay)
	if err != nil {
		return err
	}

	ch, err := c.ensureChannel()
	if err != nil {
		return err
	}

	if c.mode != modeSubscription {
		queueName, err := t.declare(ch)
		if err != nil {
			return err
		}

		c.mode = modeSubscription
		c.exchangeDeclared = true
		c.queueName = queueName
		c.markTopologyReady()

		c.logger.Debug().
			Str("queue", queueName).
			Str("subscriber_group", c.cfg.SubscriberGroup).
			Msg("subscription topology declared")
	}

	requeue := transient || c.cfg.RedeliveryDelay <= 0

	return c.startConsuming(ctx, ch, handler, requeue)
}

// Stop cancels the consumer. The queue and its pending messages are left intact.
// It is a no-op when the client is not consuming. When the broker refuses the cancel
// the client keeps consuming and Stop can be called again.
func (c *Client[T]) Stop() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	switch c.state {
	case StateClosed:
		return ErrClientClosed
	case StateConsuming:
	default:
		return nil
	}

	// The client stays consuming until the broker confirmed the cancel.
	if err := c.ch.cancel(c.consumerTag); err != nil {
		return fmt.Errorf("failed to cancel consumer %s: %w", c.consumerTag, err)
	}

	c.state = StateStopped
	c.stopOnCancel()

	c.logger.Info().Str("queue", c.queueName).Msg("consumer stopped")

	return nil
}

// Close cancels the consumer, if any, then closes the channel and the connection.
// Declared topology is never deleted. Calling Close more than once is a no-op.
func (c *Client[T]) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == StateClosed {
		return nil
	}

	consuming := c.state == StateConsuming
	c.state = StateClosed
	c.stopOnCancel()

	var errs error

	if consuming && !c.lost.Load() {
		if err := c.ch.cancel(c.consumerTag); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to cancel consumer: %w", err))
		}
	}

	if c.ch != nil {
		if err := c.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) && !c.lost.Load() {
			errs = errors.Join(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = errors.Join(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}

	if !c.dispatching {
		close(c.done)
	}

	c.logger.Debug().Msg("client closed")

	return errs
}

func (c *Client[T]) ensureWorkQueue() (channel, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.usable(); err != nil {
		return nil, err
	}

	if c.mode == modeSubscription {
		return nil, ErrWorkQueueAfterSubscribe
	}

	return c.declareWorkQueue()
}

// declareWorkQueue must be called with the mutex held.
func (c *Client[T]) declareWorkQueue() (channel, error) {
	ch, err := c.ensureChannel()
	if err != nil {
		return nil, err
	}

	if c.mode == modeWorkQueue {
		return ch, nil
	}

	if _, err := workQueueTopology(c.typeName).declare(ch); err != nil {
		return nil, err
	}

	c.mode = modeWorkQueue
	c.markTopologyReady()

	c.logger.Debug().Str("queue", c.typeName).Msg("work queue declared")

	return ch, nil
}

func (c *Client[T]) ensureExchange() (channel, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.usable(); err != nil {
		return nil, err
	}

	ch, err := c.ensureChannel()
	if err != nil {
		return nil, err
	}

	if c.exchangeDeclared {
		return ch, nil
	}

	if _, err := exchangeTopology(c.typeName).declare(ch); err != nil {
		return nil, err
	}

	c.exchangeDeclared = true
	c.markTopologyReady()

	c.logger.Debug().Str("exchange", c.typeName).Msg("fan-out exchange declared")

	return ch, nil
}

// ensureChannel must be called with the mutex held.
func (c *Client[T]) ensureChannel() (channel, error) {
	if c.ch != nil {
		return c.ch, nil
	}

	conn, err := connect(c.cfg, c.options.dial, c.logger)
	if err != nil {
		return nil, err
	}

	ch, err := conn.channel(c.logger)
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.confirm(); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if err := ch.qos(prefetchCount); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to set prefetch count: %w", err)
	}

	watchConnection(conn, &c.lost, c.cfg.OnConnectionLost, c.logger)

	c.conn = conn
	c.ch = ch

	return ch, nil
}

// startConsuming must be called with the mutex held.
func (c *Client[T]) startConsuming(ctx context.Context, ch channel, handler Handler[T], requeue bool) error {
	tag := fmt.Sprintf("%s-%s", c.typeName, uuid.NewString())

	deliveries, err := ch.consume(c.queueName, tag)
	if err != nil {
		return fmt.Errorf("failed to consume from queue %s: %w", c.queueName, err)
	}

	c.consumerTag = tag
	c.state = StateConsuming
	c.dispatching = true

	d := &dispatcher[T]{
		typeName: c.typeName,
		handler:  handler,
		codec:    c.options.codec,
		requeue:  requeue,
		logger:   c.logger,
		metrics:  c.options.metrics,
		onEnd:    c.consumerEnded,
	}

	go d.run(ctx, deliveries, c.done)

	c.stopOnCancel = context.AfterFunc(ctx, func() {
		if err := c.Stop(); err != nil && !errors.Is(err, ErrClientClosed) {
			c.logger.Error().Err(err).Msg("failed to stop consumer on context cancellation")
		}
	})

	c.logger.Info().
		Str("queue", c.queueName).
		Str("consumer", tag).
		Msg("consumer started")

	return nil
}

// consumerEnded runs once the delivery channel of the consumer closed. Stop and Close
// leave the consuming state before the channel closes, so a client still consuming here
// lost its consumer on the broker side.
func (c *Client[T]) consumerEnded() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state != StateConsuming {
		return
	}

	c.state = StateConsumerLost
	c.stopOnCancel()

	c.logger.Error().
		Str("queue", c.queueName).
		Str("consumer", c.consumerTag).
		Msg("delivery channel closed while consuming")
}

func (c *Client[T]) publish(ctx context.Context, ch channel, mode, exchange, key string, msg T) error {
	start := time.Now()

	err := c.deliver(ctx, ch, exchange, key, msg)

	c.options.metrics.RecordPublish(ctx, c.typeName, mode, time.Since(start), err == nil)

	if err != nil {
		c.logger.Error().Err(err).Str("mode", mode).Msg("failed to deliver message")

		return err
	}

	return nil
}

func (c *Client[T]) deliver(ctx context.Context, ch channel, exchange, key string, msg T) error {
	body, err := c.options.codec.Marshal(msg)
	if err != nil {
		return err
	}

	deliveryErr := func(err error) error {
		return &DeliveryError{MessageType: c.typeName, Exchange: exchange, RoutingKey: key, Err: err}
	}

	confirmCtx, cancel := context.WithTimeout(ctx, c.options.confirmTimeout)
	defer cancel()

	pending, err := ch.publish(confirmCtx, exchange, key, amqp.Publishing{
		ContentType:  c.options.codec.ContentType(),
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		if c.lost.Load() {
			err = errors.Join(ErrConnectionLost, err)
		}

		return deliveryErr(err)
	}

	acked, err := pending.WaitContext(confirmCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrConfirmTimeout, c.options.confirmTimeout)
		}

		return deliveryErr(err)
	}

	if !acked {
		return deliveryErr(ErrNegativeConfirm)
	}

	return nil
}

func (c *Client[T]) usable() error {
	if c.state == StateClosed {
		return ErrClientClosed
	}

	if c.lost.Load() {
		return ErrConnectionLost
	}

	return nil
}

func (c *Client[T]) canConsume() error {
	if err := c.state.canStartConsuming(); err != nil {
		return err
	}

	return c.usable()
}

func (c *Client[T]) markTopologyReady() {
	if c.state == StateIdle {
		c.state = StateTopologyReady
	}
}
