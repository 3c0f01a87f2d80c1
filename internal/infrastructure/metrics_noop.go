package infrastructure

import (
	"context"
	"net/http"
	"time"
)

type (
	NoOp struct{}

	NoOpMetrics struct{}
)

func (d NoOp) Inc(_ string, _ int) {
}

func (n *NoOpMetrics) RecordHTTPRequest(_ context.Context, _, _ string, _ int, _ time.Duration, _, _ int64) {
}

func (n *NoOpMetrics) RecordJobSubmitted(_ context.Context, _ bool, _ string) {
}

func (n *NoOpMetrics) RecordStageReport(_ context.Context, _ string, _ bool) {
}

func (n *NoOpMetrics) RecordJobFinished(_ context.Context, _ string, _ time.Duration) {
}

func (n *NoOpMetrics) RecordCallback(_ context.Context, _ bool, _ int) {
}

func (n *NoOpMetrics) RecordUseCase(_ context.Context, _ string, _ bool) {
}

func (n *NoOpMetrics) RecordPublish(_ context.Context, _, _ string, _ time.Duration, _ bool) {
}

func (n *NoOpMetrics) RecordDelivery(_ context.Context, _, _ string, _ time.Duration) {
}

func (n *NoOpMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (n *NoOpMetrics) Shutdown(_ context.Context) error {
	return nil
}
