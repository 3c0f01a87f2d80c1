package queue

import (
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkQueueTopology(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("queueDeclare", "PlanTrip", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "PlanTrip"}, nil).Once()

	name, err := workQueueTopology("PlanTrip").declare(ch)
	require.NoError(t, err)
	assert.Equal(t, "PlanTrip", name)

	ch.AssertExpectations(t)
	ch.AssertNumberOfCalls(t, "queueBind", 0)
	ch.AssertNumberOfCalls(t, "exchangeDeclare", 0)
}

func TestExchangeTopology(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("exchangeDeclare", "TripJobFinished", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()

	name, err := exchangeTopology("TripJobFinished").declare(ch)
	require.NoError(t, err)
	assert.Empty(t, name)

	ch.AssertExpectations(t)
	ch.AssertNumberOfCalls(t, "queueDeclare", 0)
}

func TestSubscriptionTopology_Transient(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("exchangeDeclare", "JobStageReported", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("queueDeclare", "", false, true, true, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "amq.gen-JzTY20BRgKO"}, nil).Once()
	ch.On("queueBind", "amq.gen-JzTY20BRgKO", RoutingKeyAll, "JobStageReported", false, amqp.Table(nil)).
		Return(nil).Once()

	// The redelivery delay and the group are irrelevant to transient subscriptions.
	topo, err := subscriptionTopology("JobStageReported", true, "", time.Second)
	require.NoError(t, err)

	name, err := topo.declare(ch)
	require.NoError(t, err)
	assert.Equal(t, "amq.gen-JzTY20BRgKO", name)

	ch.AssertExpectations(t)
	ch.AssertNumberOfCalls(t, "queueBind", 1)
}

func TestSubscriptionTopology_Durable(t *testing.T) {
	t.Parallel()

	ch := &MockChannel{}
	ch.On("exchangeDeclare", "JobStageReported", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("queueDeclare", "JobStageReported-tracker", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "JobStageReported-tracker"}, nil).Once()
	ch.On("queueBind", "JobStageReported-tracker", RoutingKeyAll, "JobStageReported", false, amqp.Table(nil)).
		Return(nil).Once()

	topo, err := subscriptionTopology("JobStageReported", false, "tracker", 0)
	require.NoError(t, err)

	name, err := topo.declare(ch)
	require.NoError(t, err)
	assert.Equal(t, "JobStageReported-tracker", name)

	ch.AssertExpectations(t)
	ch.AssertNumberOfCalls(t, "exchangeDeclare", 1)
	ch.AssertNumberOfCalls(t, "queueBind", 1)
}

func TestSubscriptionTopology_DurableWithRetry(t *testing.T) {
	t.Parallel()

	const (
		exchange  = "JobStageReported"
		mainQueue = "JobStageReported-tracker"
		retry     = "JobStageReported-tracker-retry"
	)

	ch := &MockChannel{}
	ch.On("exchangeDeclare", exchange, amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("exchangeDeclare", retry, amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()
	ch.On("queueDeclare", mainQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    retry,
		"x-dead-letter-routing-key": "",
	}).Return(amqp.Queue{Name: mainQueue}, nil).Once()
	ch.On("queueDeclare", retry, true, false, false, false, amqp.Table{
		"x-message-ttl":             int64(1500),
		"x-dead-letter-exchange":    exchange,
		"x-dead-letter-routing-key": "tracker",
	}).Return(amqp.Queue{Name: retry}, nil).Once()
	ch.On("queueBind", retry, "", retry, false, amqp.Table(nil)).Return(nil).Once()
	ch.On("queueBind", mainQueue, RoutingKeyAll, exchange, false, amqp.Table(nil)).Return(nil).Once()
	ch.On("queueBind", mainQueue, "tracker", exchange, false, amqp.Table(nil)).Return(nil).Once()

	topo, err := subscriptionTopology(exchange, false, "tracker", 1500*time.Millisecond)
	require.NoError(t, err)

	name, err := topo.declare(ch)
	require.NoError(t, err)
	assert.Equal(t, mainQueue, name)

	ch.AssertExpectations(t)
	ch.AssertNumberOfCalls(t, "exchangeDeclare", 2)
	ch.AssertNumberOfCalls(t, "queueDeclare", 2)
	ch.AssertNumberOfCalls(t, "queueBind", 3)
}

func TestSubscriptionTopology_MissingGroup(t *testing.T) {
	t.Parallel()

	for _, delay := range []time.Duration{0, time.Second} {
		_, err := subscriptionTopology("JobStageReported", false, "", delay)
		assert.ErrorIs(t, err, ErrMissingSubscriberGroup)
	}
}

func TestTopology_DeclareFailures(t *testing.T) {
	t.Parallel()

	precondition := &amqp.Error{Code: amqp.PreconditionFailed, Reason: "PRECONDITION_FAILED - inequivalent arg 'durable'"}

	tests := []struct {
		name       string
		setup      func(ch *MockChannel)
		expectedOp string
	}{
		{
			name: "exchange conflict",
			setup: func(ch *MockChannel) {
				ch.On("exchangeDeclare", "JobStageReported", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
					Return(precondition)
			},
			expectedOp: "declare exchange",
		},
		{
			name: "queue conflict",
			setup: func(ch *MockChannel) {
				ch.On("exchangeDeclare", "JobStageReported", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
					Return(nil)
				ch.On("queueDeclare", "JobStageReported-tracker", true, false, false, false, amqp.Table(nil)).
					Return(amqp.Queue{}, precondition)
			},
			expectedOp: "declare queue",
		},
		{
			name: "binding failure",
			setup: func(ch *MockChannel) {
				ch.On("exchangeDeclare", "JobStageReported", amqp.ExchangeDirect, true, false, false, false, amqp.Table(nil)).
					Return(nil)
				ch.On("queueDeclare", "JobStageReported-tracker", true, false, false, false, amqp.Table(nil)).
					Return(amqp.Queue{Name: "JobStageReported-tracker"}, nil)
				ch.On("queueBind", "JobStageReported-tracker", RoutingKeyAll, "JobStageReported", false, amqp.Table(nil)).
					Return(precondition)
			},
			expectedOp: "bind queue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch := &MockChannel{}
			tt.setup(ch)

			topo, err := subscriptionTopology("JobStageReported", false, "tracker", 0)
			require.NoError(t, err)

			_, err = topo.declare(ch)
			require.Error(t, err)

			var topologyErr *TopologyError
			require.True(t, errors.As(err, &topologyErr))
			assert.Equal(t, tt.expectedOp, topologyErr.Op)
			assert.ErrorIs(t, err, precondition)
			assert.True(t, IsConfigurationError(err))
		})
	}
}
