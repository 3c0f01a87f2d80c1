package adapters

import (
	"context"
	"strings"

	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/shared/decorator"
)

type MetricsAdapter struct {
	metrics infrastructure.Metrics
}

func NewMetricsAdapter(metrics infrastructure.Metrics) decorator.MetricsClient {
	return &MetricsAdapter{
		metrics: metrics,
	}
}

// Inc maps the decorator outcome counters onto the use case metric.
// Keys look like commands.submittripcommand.success.
func (m *MetricsAdapter) Inc(key string, _ int) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 {
		return
	}

	switch parts[2] {
	case "success":
		m.metrics.RecordUseCase(context.Background(), parts[1], true)
	case "failure":
		m.metrics.RecordUseCase(context.Background(), parts[1], false)
	}
}
