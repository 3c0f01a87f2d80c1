package decorator

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/architeacher/svc-trip-planner/internal/shared/decorator"

type (
	commandTracingDecorator[C any, R any] struct {
		base   CommandHandler[C, R]
		tracer trace.Tracer
	}

	queryTracingDecorator[Q any, R any] struct {
		base   QueryHandler[Q, R]
		tracer trace.Tracer
	}
)

func (d commandTracingDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	ctx, span := d.tracer.Start(ctx, "command."+generateActionName(cmd),
		trace.WithAttributes(attribute.String("cqrs.kind", "command")),
	)
	defer span.End()

	result, err := d.base.Handle(ctx, cmd)
	endSpan(span, err)

	return result, err
}

func (d queryTracingDecorator[Q, R]) Execute(ctx context.Context, q Q) (R, error) {
	ctx, span := d.tracer.Start(ctx, "query."+generateActionName(q),
		trace.WithAttributes(attribute.String("cqrs.kind", "query")),
	)
	defer span.End()

	result, err := d.base.Execute(ctx, q)
	endSpan(span, err)

	return result, err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return
	}

	span.SetStatus(codes.Ok, "")
}
