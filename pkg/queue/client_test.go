package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func persistentJSON(p amqp.Publishing) bool {
	return p.DeliveryMode == amqp.Persistent && p.ContentType == "application/json"
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("derives the name from the message type", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient[orderPlaced](testConfig())
		require.NoError(t, err)

		assert.Equal(t, "orderPlaced", client.MessageType())
		assert.Equal(t, "orderPlaced", client.QueueName())
		assert.Equal(t, StateIdle, client.State())
	})

	t.Run("uses the element name of pointer types", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient[*orderPlaced](testConfig())
		require.NoError(t, err)

		assert.Equal(t, "orderPlaced", client.MessageType())
	})

	t.Run("type name can be overridden", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient[orderPlaced](testConfig(), WithTypeName("OrderPlaced"))
		require.NoError(t, err)

		assert.Equal(t, "OrderPlaced", client.MessageType())
	})

	t.Run("rejects unnamed types", func(t *testing.T) {
		t.Parallel()

		_, err := NewClient[map[string]any](testConfig())
		assert.ErrorIs(t, err, ErrUnnamedMessageType)

		_, err = NewClient[struct{ ID string }](testConfig())
		assert.ErrorIs(t, err, ErrUnnamedMessageType)
		assert.True(t, IsConfigurationError(err))
	})

	t.Run("requires broker nodes", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Hosts = []string{""}

		_, err := NewClient[orderPlaced](cfg)
		assert.ErrorIs(t, err, ErrNoBrokerNodes)
	})
}

func TestClient_SendDeclaresWorkQueueOnce(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil)
	ch.On("publish", mock.Anything, "", "orderPlaced", mock.MatchedBy(persistentJSON)).
		Return(fakeConfirmation{acked: true}, nil)

	metrics := &MockMetricsRecorder{}
	metrics.On("RecordPublish", mock.Anything, "orderPlaced", ModeSend, mock.AnythingOfType("time.Duration"), true)

	client, _, dialer, err := newTestClient[orderPlaced](testConfig(), ch, WithMetrics(metrics))
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, client.Send(context.Background(), orderPlaced{ID: "order", Total: i}))
	}

	assert.Equal(t, StateTopologyReady, client.State())
	assert.Equal(t, int32(1), dialer.calls.Load())

	ch.AssertNumberOfCalls(t, "queueDeclare", 1)
	ch.AssertNumberOfCalls(t, "exchangeDeclare", 0)
	ch.AssertNumberOfCalls(t, "publish", 3)
	ch.AssertExpectations(t)
	metrics.AssertNumberOfCalls(t, "RecordPublish", 3)
}

func TestClient_PublishDeclaresExchangeOnce(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("exchangeDeclare", "orderPlaced", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil)
	ch.On("publish", mock.Anything, "orderPlaced", RoutingKeyAll, mock.MatchedBy(persistentJSON)).
		Return(fakeConfirmation{acked: true}, nil)

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	require.NoError(t, client.Publish(context.Background(), orderPlaced{ID: "1"}))
	require.NoError(t, client.Publish(context.Background(), orderPlaced{ID: "2"}))

	ch.AssertNumberOfCalls(t, "exchangeDeclare", 1)
	ch.AssertNumberOfCalls(t, "queueDeclare", 0)
	ch.AssertExpectations(t)
}

func TestClient_ConcurrentFirstUseDeclaresTopologyOnce(t *testing.T) {
	t.Parallel()

	const callers = 16

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("exchangeDeclare", "orderPlaced", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("publish", mock.Anything, "", "orderPlaced", mock.MatchedBy(persistentJSON)).
		Return(fakeConfirmation{acked: true}, nil)
	ch.On("publish", mock.Anything, "orderPlaced", RoutingKeyAll, mock.MatchedBy(persistentJSON)).
		Return(fakeConfirmation{acked: true}, nil)

	client, _, dialer, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	start := make(chan struct{})

	var group errgroup.Group

	for i := range callers {
		group.Go(func() error {
			<-start

			msg := orderPlaced{ID: "order", Total: i}
			if i%2 == 0 {
				return client.Send(context.Background(), msg)
			}

			return client.Publish(context.Background(), msg)
		})
	}

	close(start)
	require.NoError(t, group.Wait())

	assert.Equal(t, int32(1), dialer.calls.Load())
	assert.Equal(t, StateTopologyReady, client.State())

	ch.AssertNumberOfCalls(t, "confirm", 1)
	ch.AssertNumberOfCalls(t, "qos", 1)
	ch.AssertNumberOfCalls(t, "queueDeclare", 1)
	ch.AssertNumberOfCalls(t, "exchangeDeclare", 1)
	ch.AssertNumberOfCalls(t, "publish", callers)
}

func TestClient_PublishAfterSendIsAllowed(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("exchangeDeclare", "orderPlaced", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fakeConfirmation{acked: true}, nil)

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), orderPlaced{ID: "1"}))
	require.NoError(t, client.Publish(context.Background(), orderPlaced{ID: "1"}))

	ch.AssertExpectations(t)
}

func TestClient_DeliveryFailures(t *testing.T) {
	t.Parallel()

	brokerErr := errors.New("channel/connection is not open")

	tests := []struct {
		name        string
		confirm     confirmation
		publishErr  error
		expectedErr error
	}{
		{
			name:        "negative confirmation",
			confirm:     fakeConfirmation{acked: false},
			expectedErr: ErrNegativeConfirm,
		},
		{
			name:        "confirmation timeout",
			confirm:     blockingConfirmation{},
			expectedErr: ErrConfirmTimeout,
		},
		{
			name:        "publish failure",
			publishErr:  brokerErr,
			expectedErr: brokerErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch := &MockChannel{}
			ch.expectChannelSetup()
			ch.On("exchangeDeclare", "orderPlaced", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
				Return(nil)
			ch.On("publish", mock.Anything, "orderPlaced", RoutingKeyAll, mock.Anything).
				Return(tt.confirm, tt.publishErr)

			metrics := &MockMetricsRecorder{}
			metrics.On("RecordPublish", mock.Anything, "orderPlaced", ModePublish, mock.AnythingOfType("time.Duration"), false).Once()

			client, _, _, err := newTestClient[orderPlaced](
				testConfig(), ch, WithConfirmTimeout(20*time.Millisecond), WithMetrics(metrics),
			)
			require.NoError(t, err)

			err = client.Publish(context.Background(), orderPlaced{ID: "1"})
			require.Error(t, err)

			var deliveryErr *DeliveryError
			require.True(t, errors.As(err, &deliveryErr))
			assert.Equal(t, "orderPlaced", deliveryErr.Exchange)
			assert.Equal(t, RoutingKeyAll, deliveryErr.RoutingKey)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.False(t, IsConfigurationError(err))

			metrics.AssertExpectations(t)
		})
	}
}

func TestClient_SubscribeAfterWorkQueueFailsFast(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()

	cfg := testConfig()
	cfg.SubscriberGroup = "billing"

	client, _, _, err := newTestClient[orderPlaced](cfg, ch)
	require.NoError(t, err)

	require.NoError(t, client.StartReceiving(context.Background(), func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	}))

	err = client.StartSubscribing(context.Background(), false, func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, ErrAlreadyConsuming)

	sendCh := &MockChannel{}
	sendCh.expectChannelSetup()
	sendCh.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	sendCh.On("publish", mock.Anything, "", "orderPlaced", mock.Anything).
		Return(fakeConfirmation{acked: true}, nil).Once()

	sender, _, _, err := newTestClient[orderPlaced](cfg, sendCh)
	require.NoError(t, err)
	require.NoError(t, sender.Send(context.Background(), orderPlaced{ID: "1"}))

	err = sender.StartSubscribing(context.Background(), false, func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, ErrSubscribeAfterWorkQueue)
	assert.True(t, IsConfigurationError(err))

	sendCh.AssertNumberOfCalls(t, "exchangeDeclare", 0)
	sendCh.AssertNumberOfCalls(t, "queueBind", 0)
	sendCh.AssertNumberOfCalls(t, "consume", 0)
	assert.Equal(t, StateTopologyReady, sender.State())
}

func TestClient_WorkQueueAfterSubscribeFails(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("exchangeDeclare", "orderPlaced", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("queueDeclare", "", false, true, true, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "amq.gen-1"}, nil).Once()
	ch.On("queueBind", "amq.gen-1", RoutingKeyAll, "orderPlaced", false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("consume", "amq.gen-1", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	require.NoError(t, client.StartSubscribing(context.Background(), true, func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	}))
	assert.Equal(t, "amq.gen-1", client.QueueName())
	assert.Equal(t, StateConsuming, client.State())

	err = client.Send(context.Background(), orderPlaced{ID: "1"})
	assert.ErrorIs(t, err, ErrWorkQueueAfterSubscribe)

	ch.AssertNumberOfCalls(t, "publish", 0)
	ch.AssertExpectations(t)
}

func TestClient_DurableSubscriptionRequiresGroup(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}

	client, _, dialer, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	err = client.StartSubscribing(context.Background(), false, func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, ErrMissingSubscriberGroup)
	assert.Equal(t, int32(0), dialer.calls.Load())
	assert.Equal(t, StateIdle, client.State())
}

func TestClient_NilHandler(t *testing.T) {
	t.Parallel()

	client, _, dialer, err := newTestClient[orderPlaced](testConfig(), &MockChannel{})
	require.NoError(t, err)

	assert.ErrorIs(t, client.StartReceiving(context.Background(), nil), ErrNilHandler)
	assert.ErrorIs(t, client.StartSubscribing(context.Background(), true, nil), ErrNilHandler)
	assert.Equal(t, int32(0), dialer.calls.Load())
}

func TestClient_SubscriptionRequeuePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		delay           time.Duration
		expectedRequeue bool
	}{
		{name: "without redelivery delay", delay: 0, expectedRequeue: true},
		{name: "with redelivery delay", delay: 100 * time.Millisecond, expectedRequeue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deliveries := make(chan amqp.Delivery, 2)

			ch := &MockChannel{}
			ch.expectChannelSetup()
			ch.On("exchangeDeclare", mock.Anything, amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).Return(nil)
			ch.On("queueDeclare", mock.Anything, true, false, false, false, mock.Anything).
				Return(amqp.Queue{Name: "orderPlaced-billing"}, nil)
			ch.On("queueBind", mock.Anything, mock.Anything, mock.Anything, false, amqp.Table(nil)).Return(nil)
			ch.On("consume", "orderPlaced-billing", mock.AnythingOfType("string")).
				Return((<-chan amqp.Delivery)(deliveries), nil).Once()

			cfg := testConfig()
			cfg.SubscriberGroup = "billing"
			cfg.RedeliveryDelay = tt.delay

			client, _, _, err := newTestClient[orderPlaced](cfg, ch)
			require.NoError(t, err)

			acknowledger := &MockAcknowledger{}
			acknowledger.On("Ack", uint64(1), false).Return(nil).Once()
			acknowledger.On("Nack", uint64(2), false, tt.expectedRequeue).Return(nil).Once()

			require.NoError(t, client.StartSubscribing(context.Background(), false, func(_ context.Context, msg orderPlaced) (bool, error) {
				return msg.ID == "accepted", nil
			}))
			assert.Equal(t, "orderPlaced-billing", client.QueueName())

			deliveries <- amqp.Delivery{Acknowledger: acknowledger, DeliveryTag: 1, Body: []byte(`{"id":"accepted"}`)}
			deliveries <- amqp.Delivery{Acknowledger: acknowledger, DeliveryTag: 2, Body: []byte(`{"id":"refused"}`)}
			close(deliveries)

			select {
			case <-client.Done():
			case <-time.After(time.Second):
				t.Fatal("dispatcher did not stop")
			}

			acknowledger.AssertExpectations(t)
			acknowledger.AssertNumberOfCalls(t, "Ack", 1)
			acknowledger.AssertNumberOfCalls(t, "Nack", 1)
		})
	}
}

func TestClient_ReceivingAlwaysRequeues(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery, 1)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()

	cfg := testConfig()
	cfg.RedeliveryDelay = time.Second

	client, _, _, err := newTestClient[orderPlaced](cfg, ch)
	require.NoError(t, err)

	acknowledger := &MockAcknowledger{}
	acknowledger.On("Nack", uint64(1), false, true).Return(nil).Once()

	require.NoError(t, client.StartReceiving(context.Background(), func(context.Context, orderPlaced) (bool, error) {
		return false, nil
	}))

	deliveries <- amqp.Delivery{Acknowledger: acknowledger, DeliveryTag: 1, Body: []byte(`{"id":"1"}`)}
	close(deliveries)

	<-client.Done()

	acknowledger.AssertExpectations(t)
}

func TestClient_StopAndRestart(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()
	ch.On("cancel", mock.AnythingOfType("string")).Run(func(mock.Arguments) {
		close(deliveries)
	}).Return(nil).Once()

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	require.NoError(t, client.Stop(), "stop before start is a no-op")

	handler := func(context.Context, orderPlaced) (bool, error) { return true, nil }

	require.NoError(t, client.StartReceiving(context.Background(), handler))
	assert.ErrorIs(t, client.StartReceiving(context.Background(), handler), ErrAlreadyConsuming)

	require.NoError(t, client.Stop())
	assert.Equal(t, StateStopped, client.State())
	<-client.Done()

	require.NoError(t, client.Stop())
	assert.ErrorIs(t, client.StartReceiving(context.Background(), handler), ErrClientStopped)

	ch.AssertExpectations(t)
}

func TestClient_StopKeepsConsumingWhenCancelFails(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()
	ch.On("cancel", mock.AnythingOfType("string")).
		Return(errors.New("channel busy")).Once()
	ch.On("cancel", mock.AnythingOfType("string")).Run(func(mock.Arguments) {
		close(deliveries)
	}).Return(nil).Once()

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	require.NoError(t, client.StartReceiving(context.Background(), func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	}))

	err = client.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel busy")
	assert.Equal(t, StateConsuming, client.State())

	select {
	case <-client.Done():
		t.Fatal("consumer must keep dispatching after a failed cancel")
	default:
	}

	require.NoError(t, client.Stop())
	assert.Equal(t, StateStopped, client.State())
	<-client.Done()

	ch.AssertExpectations(t)
}

func TestClient_BrokerCancelMarksConsumerLost(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()
	ch.On("Close").Return(nil).Once()

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	handler := func(context.Context, orderPlaced) (bool, error) { return true, nil }

	require.NoError(t, client.StartReceiving(context.Background(), handler))

	// The broker cancelled the consumer, for example because its queue was deleted.
	close(deliveries)

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("done must be closed once the delivery channel closed")
	}

	assert.Equal(t, StateConsumerLost, client.State())
	assert.Equal(t, "consumer_lost", client.State().String())
	assert.ErrorIs(t, client.StartReceiving(context.Background(), handler), ErrConsumerLost)
	require.NoError(t, client.Stop(), "nothing left to cancel")

	require.NoError(t, client.Close())
	assert.Equal(t, StateClosed, client.State())

	ch.AssertNotCalled(t, "cancel", mock.Anything)
	ch.AssertExpectations(t)
}

func TestClient_ContextCancellationStopsConsumer(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()
	ch.On("cancel", mock.AnythingOfType("string")).Run(func(mock.Arguments) {
		close(deliveries)
	}).Return(nil).Once()

	client, _, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, client.StartReceiving(ctx, func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	}))

	cancel()

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer was not stopped on context cancellation")
	}

	assert.Equal(t, StateStopped, client.State())
	ch.AssertExpectations(t)
}

func TestClient_Close(t *testing.T) {
	t.Parallel()

	deliveries := make(chan amqp.Delivery)

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("consume", "orderPlaced", mock.AnythingOfType("string")).
		Return((<-chan amqp.Delivery)(deliveries), nil).Once()
	ch.On("cancel", mock.AnythingOfType("string")).Return(nil).Once()
	ch.On("Close").Run(func(mock.Arguments) {
		close(deliveries)
	}).Return(nil).Once()

	client, conn, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	require.NoError(t, client.StartReceiving(context.Background(), func(context.Context, orderPlaced) (bool, error) {
		return true, nil
	}))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	<-client.Done()

	assert.Equal(t, StateClosed, client.State())
	assert.True(t, conn.IsClosed())

	assert.ErrorIs(t, client.Send(context.Background(), orderPlaced{}), ErrClientClosed)
	assert.ErrorIs(t, client.Publish(context.Background(), orderPlaced{}), ErrClientClosed)
	assert.ErrorIs(t, client.Stop(), ErrClientClosed)

	ch.AssertExpectations(t)
}

func TestClient_CloseWithoutConsumer(t *testing.T) {
	t.Parallel()

	client, _, dialer, err := newTestClient[orderPlaced](testConfig(), &MockChannel{})
	require.NoError(t, err)

	require.NoError(t, client.Close())

	select {
	case <-client.Done():
	default:
		t.Fatal("done must be closed when no consumer was started")
	}

	assert.Equal(t, int32(0), dialer.calls.Load())
}

func TestClient_ConnectionLost(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.expectChannelSetup()
	ch.On("queueDeclare", "orderPlaced", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "orderPlaced"}, nil).Once()
	ch.On("publish", mock.Anything, "", "orderPlaced", mock.Anything).
		Return(fakeConfirmation{acked: true}, nil).Once()

	var hookCalls atomic.Int32

	cfg := testConfig()
	cfg.OnConnectionLost = func(*amqp.Error) {
		hookCalls.Add(1)
	}

	client, conn, _, err := newTestClient[orderPlaced](cfg, ch)
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), orderPlaced{ID: "1"}))
	assert.False(t, client.ConnectionLost())

	conn.drop(&amqp.Error{Code: amqp.ConnectionForced, Reason: "CONNECTION_FORCED - broker forced connection closure"})

	assert.Eventually(t, func() bool {
		return hookCalls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	assert.True(t, client.ConnectionLost())
	assert.ErrorIs(t, client.Send(context.Background(), orderPlaced{ID: "2"}), ErrConnectionLost)
	ch.AssertNumberOfCalls(t, "publish", 1)
}

func TestClient_ChannelSetupFailure(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("confirm").Return(errors.New("confirm not supported")).Once()
	ch.On("Close").Return(nil).Once()

	client, conn, _, err := newTestClient[orderPlaced](testConfig(), ch)
	require.NoError(t, err)

	err = client.Publish(context.Background(), orderPlaced{ID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publisher confirms")
	assert.True(t, conn.IsClosed())
	assert.Equal(t, StateIdle, client.State())

	ch.AssertExpectations(t)
}
