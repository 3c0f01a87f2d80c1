package adapters

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/ports"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

const defaultCheckTimeout = 2 * time.Second

var (
	errQueueConnectionLost = errors.New("broker connection lost")
	errQueueClosed         = errors.New("queue client closed")
	errQueueConsumerLost   = errors.New("queue consumer cancelled by the broker")

	_ ports.HealthChecker = (*HealthChecker)(nil)
)

type (
	// Pinger is a dependency that answers a round trip.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// QueueProbe exposes the broker state of a queue client.
	QueueProbe interface {
		State() queue.State
		ConnectionLost() bool
	}

	HealthChecker struct {
		storage      Pinger
		cache        Pinger
		queue        QueueProbe
		checkTimeout time.Duration
		startTime    time.Time
		now          func() time.Time
	}
)

func NewHealthChecker(storage, cache Pinger, queue QueueProbe, checkTimeout time.Duration) *HealthChecker {
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}

	return &HealthChecker{
		storage:      storage,
		cache:        cache,
		queue:        queue,
		checkTimeout: checkTimeout,
		startTime:    time.Now(),
		now:          time.Now,
	}
}

// CheckHealth runs every dependency check concurrently.
func (h *HealthChecker) CheckHealth(ctx context.Context) *domain.HealthResult {
	var storageStatus, cacheStatus, queueStatus domain.DependencyStatus

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		storageStatus = h.ping(groupCtx, h.storage)

		return nil
	})
	group.Go(func() error {
		cacheStatus = h.ping(groupCtx, h.cache)

		return nil
	})
	group.Go(func() error {
		queueStatus = h.probeQueue()

		return nil
	})

	_ = group.Wait()

	return &domain.HealthResult{
		OverallStatus: domain.OverallHealth(storageStatus.Status, cacheStatus.Status, queueStatus.Status),
		Storage:       storageStatus,
		Cache:         cacheStatus,
		Queue:         queueStatus,
		Uptime:        float32(h.now().Sub(h.startTime).Seconds()),
	}
}

func (h *HealthChecker) ping(ctx context.Context, pinger Pinger) domain.DependencyStatus {
	start := h.now()

	if pinger == nil {
		return h.status(start, errors.New("not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	return h.status(start, pinger.Ping(ctx))
}

func (h *HealthChecker) probeQueue() domain.DependencyStatus {
	start := h.now()

	switch {
	case h.queue == nil:
		return h.status(start, errors.New("not configured"))
	case h.queue.ConnectionLost():
		return h.status(start, errQueueConnectionLost)
	case h.queue.State() == queue.StateClosed:
		return h.status(start, errQueueClosed)
	case h.queue.State() == queue.StateConsumerLost:
		return h.status(start, errQueueConsumerLost)
	default:
		return h.status(start, nil)
	}
}

func (h *HealthChecker) status(start time.Time, err error) domain.DependencyStatus {
	now := h.now()

	status := domain.DependencyStatus{
		Status:       domain.DependencyCheckStatusHealthy,
		ResponseTime: float32(now.Sub(start).Milliseconds()),
		LastChecked:  now,
	}

	if err != nil {
		status.Status = domain.DependencyCheckStatusUnhealthy
		status.Error = err.Error()
	}

	return status
}
