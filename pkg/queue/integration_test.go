//go:build integration

package queue_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

type TripRequested struct {
	ID string `json:"id"`
}

type BrokerSuite struct {
	suite.Suite

	container *rabbitmq.RabbitMQContainer
	cfg       queue.Config
}

func TestBrokerSuite(t *testing.T) {
	suite.Run(t, new(BrokerSuite))
}

func (s *BrokerSuite) SetupSuite() {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:4-management-alpine")
	s.Require().NoError(err)

	s.container = container

	url, err := container.AmqpURL(ctx)
	s.Require().NoError(err)

	uri, err := amqp.ParseURI(url)
	s.Require().NoError(err)

	s.cfg = queue.Config{
		Scheme:         uri.Scheme,
		Username:       uri.Username,
		Password:       uri.Password,
		Hosts:          []string{fmt.Sprintf("%s:%d", uri.Host, uri.Port)},
		Vhost:          uri.Vhost,
		ConnectionName: "queue-integration-test",
	}
}

func (s *BrokerSuite) TearDownSuite() {
	if s.container != nil {
		s.NoError(s.container.Terminate(context.Background()))
	}
}

// newClient returns a client whose message type name is unique to the test.
func (s *BrokerSuite) newClient(cfg queue.Config, typeName string) *queue.Client[TripRequested] {
	client, err := queue.NewClient[TripRequested](cfg, queue.WithTypeName(typeName))
	s.Require().NoError(err)

	s.T().Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func (s *BrokerSuite) TestSendAndReceive() {
	ctx := context.Background()
	typeName := "SendAndReceive"

	sender := s.newClient(s.cfg, typeName)
	receiver := s.newClient(s.cfg, typeName)

	received := make(chan TripRequested, 1)

	s.Require().NoError(sender.Send(ctx, TripRequested{ID: "trip-1"}))
	s.Require().NoError(receiver.StartReceiving(ctx, func(_ context.Context, msg TripRequested) (bool, error) {
		received <- msg

		return true, nil
	}))

	select {
	case msg := <-received:
		s.Equal("trip-1", msg.ID)
	case <-time.After(5 * time.Second):
		s.Fail("message was not received")
	}
}

func (s *BrokerSuite) TestPublishFansOutToEverySubscriberGroup() {
	ctx := context.Background()
	typeName := "FanOut"

	groups := []string{"billing", "audit"}
	received := make(map[string]chan TripRequested, len(groups))

	for _, group := range groups {
		cfg := s.cfg
		cfg.SubscriberGroup = group

		ch := make(chan TripRequested, 1)
		received[group] = ch

		subscriber := s.newClient(cfg, typeName)
		s.Require().NoError(subscriber.StartSubscribing(ctx, false, func(_ context.Context, msg TripRequested) (bool, error) {
			ch <- msg

			return true, nil
		}))
		s.Equal(typeName+"-"+group, subscriber.QueueName())
	}

	publisher := s.newClient(s.cfg, typeName)
	s.Require().NoError(publisher.Publish(ctx, TripRequested{ID: "trip-2"}))

	for _, group := range groups {
		select {
		case msg := <-received[group]:
			s.Equal("trip-2", msg.ID, group)
		case <-time.After(5 * time.Second):
			s.Failf("message was not received", "group %s", group)
		}
	}
}

func (s *BrokerSuite) TestTransientSubscriptionReceivesPublishedMessages() {
	ctx := context.Background()
	typeName := "Transient"

	subscriber := s.newClient(s.cfg, typeName)
	received := make(chan TripRequested, 1)

	s.Require().NoError(subscriber.StartSubscribing(ctx, true, func(_ context.Context, msg TripRequested) (bool, error) {
		received <- msg

		return true, nil
	}))
	s.NotEqual(typeName, subscriber.QueueName())

	publisher := s.newClient(s.cfg, typeName)
	s.Require().NoError(publisher.Publish(ctx, TripRequested{ID: "trip-3"}))

	select {
	case msg := <-received:
		s.Equal("trip-3", msg.ID)
	case <-time.After(5 * time.Second):
		s.Fail("message was not received")
	}
}

func (s *BrokerSuite) TestRejectedMessageIsRedeliveredAfterDelay() {
	ctx := context.Background()
	typeName := "DelayedRetry"
	delay := 100 * time.Millisecond

	cfg := s.cfg
	cfg.SubscriberGroup = "tracker"
	cfg.RedeliveryDelay = delay

	var (
		mutex    sync.Mutex
		attempts []time.Time
	)

	done := make(chan struct{})

	subscriber := s.newClient(cfg, typeName)
	s.Require().NoError(subscriber.StartSubscribing(ctx, false, func(context.Context, TripRequested) (bool, error) {
		mutex.Lock()
		defer mutex.Unlock()

		attempts = append(attempts, time.Now())
		if len(attempts) == 1 {
			return false, nil
		}

		close(done)

		return true, nil
	}))

	publisher := s.newClient(s.cfg, typeName)
	s.Require().NoError(publisher.Publish(ctx, TripRequested{ID: "trip-4"}))

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		s.FailNow("message was not redelivered")
	}

	mutex.Lock()
	defer mutex.Unlock()

	s.Require().Len(attempts, 2)
	s.GreaterOrEqual(attempts[1].Sub(attempts[0]), delay)
}

func (s *BrokerSuite) TestDeclarationConflictIsConfigurationError() {
	ctx := context.Background()
	typeName := "Conflict"

	cfg := s.cfg
	cfg.SubscriberGroup = "tracker"

	plain := s.newClient(cfg, typeName)
	s.Require().NoError(plain.StartSubscribing(ctx, false, func(context.Context, TripRequested) (bool, error) {
		return true, nil
	}))

	// Same queue, now with dead-letter arguments.
	cfg.RedeliveryDelay = time.Second
	withRetry := s.newClient(cfg, typeName)

	err := withRetry.StartSubscribing(ctx, false, func(context.Context, TripRequested) (bool, error) {
		return true, nil
	})
	s.Require().Error(err)
	s.True(queue.IsConfigurationError(err))
}

func TestStopLeavesQueueIntact(t *testing.T) {
	if testing.Short() {
		t.Skip("requires a broker")
	}

	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:4-management-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	uri, err := amqp.ParseURI(url)
	require.NoError(t, err)

	cfg := queue.Config{
		Scheme:   uri.Scheme,
		Username: uri.Username,
		Password: uri.Password,
		Hosts:    []string{fmt.Sprintf("%s:%d", uri.Host, uri.Port)},
		Vhost:    uri.Vhost,
	}

	receiver, err := queue.NewClient[TripRequested](cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = receiver.Close() })

	require.NoError(t, receiver.StartReceiving(ctx, func(context.Context, TripRequested) (bool, error) {
		return true, nil
	}))
	require.NoError(t, receiver.Stop())

	select {
	case <-receiver.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}

	sender, err := queue.NewClient[TripRequested](cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sender.Close() })

	require.NoError(t, sender.Send(ctx, TripRequested{ID: "kept"}))

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ch, err := conn.Channel()
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		q, err := ch.QueueDeclarePassive("TripRequested", true, false, false, false, nil)

		return err == nil && q.Messages == 1
	}, 5*time.Second, 50*time.Millisecond)
}
