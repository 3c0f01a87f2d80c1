package queue

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

var _ ports.TripDispatcher = (*TripDispatcher)(nil)

// TripDispatcher sends planning requests to the PlanTrip work queue, where
// exactly one route planner instance picks each of them up.
type TripDispatcher struct {
	client sender[domain.PlanTrip]
}

func NewTripDispatcher(client sender[domain.PlanTrip]) *TripDispatcher {
	return &TripDispatcher{client: client}
}

func (d *TripDispatcher) Dispatch(ctx context.Context, msg domain.PlanTrip) error {
	if err := d.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send plan trip %s: %w", msg.JobID, err)
	}

	return nil
}
