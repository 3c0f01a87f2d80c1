package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

type (
	pingerFunc func(ctx context.Context) error

	stubQueueProbe struct {
		state queue.State
		lost  bool
	}
)

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func (p stubQueueProbe) State() queue.State {
	return p.state
}

func (p stubQueueProbe) ConnectionLost() bool {
	return p.lost
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	t.Parallel()

	healthy := pingerFunc(func(context.Context) error { return nil })
	failing := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	slow := pingerFunc(func(ctx context.Context) error {
		<-ctx.Done()

		return ctx.Err()
	})

	tests := []struct {
		name            string
		storage         Pinger
		cache           Pinger
		queue           QueueProbe
		expectedOverall domain.HealthResponseStatus
		expectedStorage domain.DependencyCheckStatus
		expectedCache   domain.DependencyCheckStatus
		expectedQueue   domain.DependencyCheckStatus
	}{
		{
			name:            "all healthy",
			storage:         healthy,
			cache:           healthy,
			queue:           stubQueueProbe{state: queue.StateTopologyReady},
			expectedOverall: domain.HealthResponseStatusHealthy,
			expectedStorage: domain.DependencyCheckStatusHealthy,
			expectedCache:   domain.DependencyCheckStatusHealthy,
			expectedQueue:   domain.DependencyCheckStatusHealthy,
		},
		{
			name:            "cache down degrades",
			storage:         healthy,
			cache:           failing,
			queue:           stubQueueProbe{state: queue.StateIdle},
			expectedOverall: domain.HealthResponseStatusDegraded,
			expectedStorage: domain.DependencyCheckStatusHealthy,
			expectedCache:   domain.DependencyCheckStatusUnhealthy,
			expectedQueue:   domain.DependencyCheckStatusHealthy,
		},
		{
			name:            "storage timeout is unhealthy",
			storage:         slow,
			cache:           healthy,
			queue:           stubQueueProbe{state: queue.StateConsuming},
			expectedOverall: domain.HealthResponseStatusUnhealthy,
			expectedStorage: domain.DependencyCheckStatusUnhealthy,
			expectedCache:   domain.DependencyCheckStatusHealthy,
			expectedQueue:   domain.DependencyCheckStatusHealthy,
		},
		{
			name:            "lost broker connection is unhealthy",
			storage:         healthy,
			cache:           healthy,
			queue:           stubQueueProbe{state: queue.StateConsuming, lost: true},
			expectedOverall: domain.HealthResponseStatusUnhealthy,
			expectedStorage: domain.DependencyCheckStatusHealthy,
			expectedCache:   domain.DependencyCheckStatusHealthy,
			expectedQueue:   domain.DependencyCheckStatusUnhealthy,
		},
		{
			name:            "closed queue client is unhealthy",
			storage:         healthy,
			cache:           healthy,
			queue:           stubQueueProbe{state: queue.StateClosed},
			expectedOverall: domain.HealthResponseStatusUnhealthy,
			expectedStorage: domain.DependencyCheckStatusHealthy,
			expectedCache:   domain.DependencyCheckStatusHealthy,
			expectedQueue:   domain.DependencyCheckStatusUnhealthy,
		},
		{
			name:            "consumer cancelled by the broker is unhealthy",
			storage:         healthy,
			cache:           healthy,
			queue:           stubQueueProbe{state: queue.StateConsumerLost},
			expectedOverall: domain.HealthResponseStatusUnhealthy,
			expectedStorage: domain.DependencyCheckStatusHealthy,
			expectedCache:   domain.DependencyCheckStatusHealthy,
			expectedQueue:   domain.DependencyCheckStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewHealthChecker(tt.storage, tt.cache, tt.queue, 20*time.Millisecond)

			result := checker.CheckHealth(context.Background())

			assert.Equal(t, tt.expectedOverall, result.OverallStatus)
			assert.Equal(t, tt.expectedStorage, result.Storage.Status)
			assert.Equal(t, tt.expectedCache, result.Cache.Status)
			assert.Equal(t, tt.expectedQueue, result.Queue.Status)
			assert.GreaterOrEqual(t, result.Uptime, float32(0))
		})
	}
}

func TestHealthChecker_MissingDependency(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(nil, nil, nil, 0)

	result := checker.CheckHealth(context.Background())

	assert.Equal(t, domain.HealthResponseStatusUnhealthy, result.OverallStatus)
	assert.Equal(t, "not configured", result.Storage.Error)
	assert.Equal(t, "not configured", result.Queue.Error)
}
