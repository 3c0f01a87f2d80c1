package decorator

import (
	"context"
	"fmt"
	"time"
)

type (
	MetricsClient interface {
		Inc(key string, value int)
	}

	commandMetricsDecorator[C any, R any] struct {
		base   CommandHandler[C, R]
		client MetricsClient
	}

	queryMetricsDecorator[Q any, R any] struct {
		base   QueryHandler[Q, R]
		client MetricsClient
	}
)

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	start := time.Now()
	actionName := generateActionName(cmd)

	defer func() {
		record(d.client, "commands", actionName, start, err)
	}()

	return d.base.Handle(ctx, cmd)
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, q Q) (result R, err error) {
	start := time.Now()
	actionName := generateActionName(q)

	defer func() {
		record(d.client, "queries", actionName, start, err)
	}()

	return d.base.Execute(ctx, q)
}

// record emits <kind>.<action>.duration in milliseconds and a success or failure counter.
func record(client MetricsClient, kind, actionName string, start time.Time, err error) {
	client.Inc(fmt.Sprintf("%s.%s.duration", kind, actionName), int(time.Since(start).Milliseconds()))

	if err == nil {
		client.Inc(fmt.Sprintf("%s.%s.success", kind, actionName), 1)

		return
	}

	client.Inc(fmt.Sprintf("%s.%s.failure", kind, actionName), 1)
}
