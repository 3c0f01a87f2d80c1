package queue

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

var _ ports.JobEventPublisher = (*JobEventPublisher)(nil)

// JobEventPublisher fans finished jobs out to every subscriber group.
type JobEventPublisher struct {
	client publisher[domain.TripJobFinished]
}

func NewJobEventPublisher(client publisher[domain.TripJobFinished]) *JobEventPublisher {
	return &JobEventPublisher{client: client}
}

func (p *JobEventPublisher) PublishFinished(ctx context.Context, msg domain.TripJobFinished) error {
	if err := p.client.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish finished job %s: %w", msg.JobID, err)
	}

	return nil
}
