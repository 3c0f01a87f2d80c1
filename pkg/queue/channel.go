package queue

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"
)

// confirmation is the pending broker acknowledgment of a single publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// channel is used mainly to be able to generate mocks for the Channel behavior.
type channel interface {
	io.Closer

	exchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	queueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	queueBind(name, key, exchange string, noWait bool, args amqp.Table) error

	qos(prefetchCount int) error
	confirm() error

	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	consume(queue, consumer string) (<-chan amqp.Delivery, error)

	cancel(consumer string) error
}

// amqpChannel is used mainly to be able to generate mocks for the AMQP behavior.
//
//nolint:interfacebloat // mirrors the subset of amqp091-go Channel used by the client
type amqpChannel interface {
	io.Closer

	Cancel(consumer string, noWait bool) error
	Confirm(noWait bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithDeferredConfirmWithContext(
		ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing,
	) (*amqp.DeferredConfirmation, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
}

// ChannelWrapper is a wrapper around amqp091-go.Channel which serializes every
// call made on the underlying channel.
type ChannelWrapper struct {
	amqpChan amqpChannel

	logger Logger

	mutex    *sync.Mutex
	canceled atomic.Bool
	closed   atomic.Bool
}

func newChannelWrapper(ch amqpChannel, logger Logger) *ChannelWrapper {
	return &ChannelWrapper{
		amqpChan: ch,
		logger:   logger,
		mutex:    &sync.Mutex{},
	}
}

// Close is a wrapper around amqp091-go.Channel.Close method, which closes a channel.
func (ch *ChannelWrapper) Close() error {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	if ch.isClosed() {
		return amqp.ErrClosed
	}

	ch.closed.Store(true)

	if ch.logger != nil {
		ch.logger.Debug().Msg("closing channel")
	}

	return ch.amqpChan.Close()
}

func (ch *ChannelWrapper) cancel(consumer string) error {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	if ch.isCanceled() {
		return nil
	}

	if err := ch.amqpChan.Cancel(consumer, false); err != nil {
		return err
	}

	ch.canceled.Store(true)

	return nil
}

// consume always uses manual acknowledgment, the dispatcher acks or nacks every delivery.
func (ch *ChannelWrapper) consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	if ch.isClosed() {
		return nil, amqp.ErrClosed
	}

	ch.canceled.Store(false)

	return ch.amqpChan.Consume(queue, consumer, false, false, false, false, nil)
}

//nolint:revive // This method has the same arguments as Channel.ExchangeDeclare from amqp091-go lib.
func (ch *ChannelWrapper) exchangeDeclare(
	name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table,
) error {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	return ch.amqpChan.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (ch *ChannelWrapper) queueDeclare(
	name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table,
) (amqp.Queue, error) {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	return ch.amqpChan.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
}

func (ch *ChannelWrapper) queueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	return ch.amqpChan.QueueBind(name, key, exchange, noWait, args)
}

func (ch *ChannelWrapper) qos(prefetchCount int) error {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	return ch.amqpChan.Qos(prefetchCount, 0, false)
}

func (ch *ChannelWrapper) confirm() error {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	return ch.amqpChan.Confirm(false)
}

// publish only holds the lock while the frame is written, waiting on the
// returned confirmation happens outside of it.
func (ch *ChannelWrapper) publish(
	ctx context.Context, exchange, key string, msg amqp.Publishing,
) (confirmation, error) {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	deferred, err := ch.amqpChan.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}

	if deferred == nil {
		return nil, ErrConfirmModeDisabled
	}

	return deferred, nil
}

func (ch *ChannelWrapper) isClosed() bool {
	return ch.closed.Load()
}

func (ch *ChannelWrapper) isCanceled() bool {
	return ch.canceled.Load()
}
