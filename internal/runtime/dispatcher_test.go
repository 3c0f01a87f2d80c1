package runtime

import (
	"context"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/mocks"
	"github.com/architeacher/svc-trip-planner/internal/ports"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates service context with default values", func(t *testing.T) {
		t.Parallel()

		serviceCtx := New()

		require.NotNil(t, serviceCtx)
		require.NotNil(t, serviceCtx.shutdownChannel)
		require.Nil(t, serviceCtx.deps)
		require.Nil(t, serviceCtx.serverReady)
	})

	t.Run("creates service context with options", func(t *testing.T) {
		t.Parallel()

		ch := make(chan os.Signal, 1)
		serviceCtx := New(
			WithServiceTermination(ch),
			WithWaitingForServer(),
		)

		require.NotNil(t, serviceCtx)
		require.Equal(t, ch, serviceCtx.shutdownChannel)
		require.NotNil(t, serviceCtx.serverReady)
	})
}

func TestNewSubscriber(t *testing.T) {
	t.Parallel()

	t.Run("creates subscriber context with default values", func(t *testing.T) {
		t.Parallel()

		subscriberCtx := NewSubscriber()

		require.NotNil(t, subscriberCtx)
		require.NotNil(t, subscriberCtx.shutdownChannel)
		require.Nil(t, subscriberCtx.deps)
	})

	t.Run("creates subscriber context with options", func(t *testing.T) {
		t.Parallel()

		ch := make(chan os.Signal, 1)
		subscriberCtx := NewSubscriber(WithSubscriberTermination(ch))

		require.NotNil(t, subscriberCtx)
		require.Equal(t, ch, subscriberCtx.shutdownChannel)
	})
}

func TestSubscriberCtx_Processors(t *testing.T) {
	t.Parallel()

	stageTracker := &mocks.FakeBackgroundProcessor{}
	callbackSender := &mocks.FakeBackgroundProcessor{}

	cases := []struct {
		name    string
		workers ApplicationWorkers
		want    []ports.BackgroundProcessor
	}{
		{
			name:    "tracker only",
			workers: ApplicationWorkers{StageTracker: stageTracker},
			want:    []ports.BackgroundProcessor{stageTracker},
		},
		{
			name:    "tracker and notifier",
			workers: ApplicationWorkers{StageTracker: stageTracker, CallbackSender: callbackSender},
			want:    []ports.BackgroundProcessor{stageTracker, callbackSender},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			subscriberCtx := NewSubscriber()
			subscriberCtx.deps = &Dependencies{Workers: tc.workers}

			require.Equal(t, tc.want, subscriberCtx.processors())
		})
	}
}

func TestOnConnectionLost_ClosesOnce(t *testing.T) {
	t.Parallel()

	deps := &Dependencies{
		logger:         infrastructure.NewTestLogger(),
		connectionLost: make(chan struct{}),
	}

	first := deps.onConnectionLost()
	second := deps.onConnectionLost()

	first(amqp.ErrClosed)
	second(amqp.ErrClosed)

	select {
	case <-deps.connectionLost:
	default:
		t.Fatal("connection lost channel was not closed")
	}
}

func TestSubscriberCtx_ConsumersDone(t *testing.T) {
	t.Parallel()

	cfg := queue.Config{Scheme: "amqp", Hosts: []string{"localhost:5672"}, Vhost: "/"}

	stageReported, err := queue.NewClient[domain.JobStageReported](cfg)
	require.NoError(t, err)

	notifications, err := queue.NewClient[domain.TripJobFinished](cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	subscriberCtx := NewSubscriber()
	subscriberCtx.ctx = ctx
	subscriberCtx.deps = &Dependencies{}
	subscriberCtx.deps.Infra.Queues.StageReported = stageReported
	subscriberCtx.deps.Infra.Queues.Notifications = notifications

	done := subscriberCtx.consumersDone()

	select {
	case <-done:
		t.Fatal("no subscription stopped yet")
	case <-time.After(20 * time.Millisecond):
	}

	// A client that never consumed closes Done on Close.
	require.NoError(t, notifications.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a stopped subscription was not noticed")
	}

	require.NoError(t, stageReported.Close())
}
