package infrastructure

import (
	"context"
	"fmt"
	"net"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/architeacher/svc-trip-planner/internal/config"
)

const (
	exporterTypeGRPC   = "grpc"
	exporterTypeStdout = "stdout"
)

// InitGlobalTracer installs the global tracer provider and propagator.
// The returned function flushes and stops the provider.
func InitGlobalTracer(ctx context.Context, telemetry config.Telemetry, app config.AppConfig) (func(context.Context) error, error) {
	exporter, err := newSpanExporter(ctx, telemetry)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, app)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(telemetry.Traces.SamplerRatio))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}

func newSpanExporter(ctx context.Context, telemetry config.Telemetry) (sdktrace.SpanExporter, error) {
	switch telemetry.ExporterType {
	case exporterTypeStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}

		return exporter, nil

	case exporterTypeGRPC, "":
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(net.JoinHostPort(telemetry.OtelGRPCHost, telemetry.OtelGRPCPort)),
			otlptracegrpc.WithInsecure(),
		)

		exporter, err := otlptrace.New(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

		return exporter, nil

	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", telemetry.ExporterType)
	}
}
