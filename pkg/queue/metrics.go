package queue

import (
	"context"
	"time"
)

// Delivery outcomes reported to MetricsRecorder.RecordDelivery.
const (
	OutcomeAcked    = "acked"
	OutcomeRequeued = "requeued"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Publish modes reported to MetricsRecorder.RecordPublish.
const (
	ModeSend    = "send"
	ModePublish = "publish"
)

// MetricsRecorder receives the outcome of every publish and every delivery handled by a client.
type MetricsRecorder interface {
	RecordPublish(ctx context.Context, messageType, mode string, duration time.Duration, success bool)
	RecordDelivery(ctx context.Context, messageType, outcome string, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordPublish(context.Context, string, string, time.Duration, bool) {}
func (nopMetrics) RecordDelivery(context.Context, string, string, time.Duration)      {}
