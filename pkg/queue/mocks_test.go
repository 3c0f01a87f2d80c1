package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
)

type orderPlaced struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockChannel) exchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	callArgs := m.Called(name, kind, durable, autoDelete, internal, noWait, args)
	return callArgs.Error(0)
}

func (m *MockChannel) queueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	callArgs := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return callArgs.Get(0).(amqp.Queue), callArgs.Error(1)
}

func (m *MockChannel) queueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	callArgs := m.Called(name, key, exchange, noWait, args)
	return callArgs.Error(0)
}

func (m *MockChannel) qos(prefetchCount int) error {
	callArgs := m.Called(prefetchCount)
	return callArgs.Error(0)
}

func (m *MockChannel) confirm() error {
	callArgs := m.Called()
	return callArgs.Error(0)
}

func (m *MockChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	callArgs := m.Called(ctx, exchange, key, msg)

	c, _ := callArgs.Get(0).(confirmation)

	return c, callArgs.Error(1)
}

func (m *MockChannel) consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	callArgs := m.Called(queue, consumer)

	deliveries, _ := callArgs.Get(0).(<-chan amqp.Delivery)

	return deliveries, callArgs.Error(1)
}

func (m *MockChannel) cancel(consumer string) error {
	callArgs := m.Called(consumer)
	return callArgs.Error(0)
}

// expectChannelSetup registers the calls every client makes on a new channel.
func (m *MockChannel) expectChannelSetup() {
	m.On("confirm").Return(nil).Once()
	m.On("qos", 1).Return(nil).Once()
}

type MockamqpChannel struct {
	mock.Mock
}

func (m *MockamqpChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockamqpChannel) Cancel(consumer string, noWait bool) error {
	args := m.Called(consumer, noWait)
	return args.Error(0)
}

func (m *MockamqpChannel) Confirm(noWait bool) error {
	args := m.Called(noWait)
	return args.Error(0)
}

func (m *MockamqpChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	callArgs := m.Called(queue, consumer, autoAck, exclusive, noLocal, noWait, args)

	deliveries, _ := callArgs.Get(0).(<-chan amqp.Delivery)

	return deliveries, callArgs.Error(1)
}

func (m *MockamqpChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	callArgs := m.Called(name, kind, durable, autoDelete, internal, noWait, args)
	return callArgs.Error(0)
}

func (m *MockamqpChannel) PublishWithDeferredConfirmWithContext(
	ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing,
) (*amqp.DeferredConfirmation, error) {
	callArgs := m.Called(ctx, exchange, key, mandatory, immediate, msg)

	deferred, _ := callArgs.Get(0).(*amqp.DeferredConfirmation)

	return deferred, callArgs.Error(1)
}

func (m *MockamqpChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	callArgs := m.Called(name, key, exchange, noWait, args)
	return callArgs.Error(0)
}

func (m *MockamqpChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	callArgs := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return callArgs.Get(0).(amqp.Queue), callArgs.Error(1)
}

func (m *MockamqpChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	callArgs := m.Called(prefetchCount, prefetchSize, global)
	return callArgs.Error(0)
}

type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	args := m.Called(tag, multiple)
	return args.Error(0)
}

func (m *MockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	args := m.Called(tag, multiple, requeue)
	return args.Error(0)
}

func (m *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	args := m.Called(tag, requeue)
	return args.Error(0)
}

type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordPublish(ctx context.Context, messageType, mode string, duration time.Duration, success bool) {
	m.Called(ctx, messageType, mode, duration, success)
}

func (m *MockMetricsRecorder) RecordDelivery(ctx context.Context, messageType, outcome string, duration time.Duration) {
	m.Called(ctx, messageType, outcome, duration)
}

type fakeConfirmation struct {
	acked bool
	err   error
}

func (f fakeConfirmation) WaitContext(context.Context) (bool, error) {
	return f.acked, f.err
}

// blockingConfirmation never receives a broker answer.
type blockingConfirmation struct{}

func (blockingConfirmation) WaitContext(ctx context.Context) (bool, error) {
	<-ctx.Done()

	return false, ctx.Err()
}

type fakeConnection struct {
	ch     channel
	chErr  error
	closed atomic.Bool

	mutex  sync.Mutex
	notify chan *amqp.Error
}

func (f *fakeConnection) channel(Logger) (channel, error) {
	return f.ch, f.chErr
}

func (f *fakeConnection) notifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.notify = receiver

	return receiver
}

func (f *fakeConnection) IsClosed() bool {
	return f.closed.Load()
}

func (f *fakeConnection) Close() error {
	f.closed.Store(true)

	return nil
}

// drop simulates the broker closing the connection with an error.
func (f *fakeConnection) drop(err *amqp.Error) {
	f.mutex.Lock()
	notify := f.notify
	f.mutex.Unlock()

	notify <- err
	close(notify)
}

// dialCounter hands out the same connection and counts dial attempts.
type dialCounter struct {
	conn  connection
	calls atomic.Int32
}

func (d *dialCounter) dial(string, amqp.Config) (connection, error) {
	d.calls.Add(1)

	return d.conn, nil
}

func testConfig() Config {
	return Config{
		Scheme:   "amqp",
		Username: "guest",
		Password: "guest",
		Hosts:    []string{"localhost:5672"},
		Vhost:    "/",
	}
}

// newTestClient returns a client wired to ch through a fake connection.
func newTestClient[T any](
	cfg Config, ch channel, opts ...ClientOption,
) (*Client[T], *fakeConnection, *dialCounter, error) {
	conn := &fakeConnection{ch: ch}
	dialer := &dialCounter{conn: conn}

	client, err := NewClient[T](cfg, append([]ClientOption{withDialer(dialer.dial)}, opts...)...)

	return client, conn, dialer, err
}
