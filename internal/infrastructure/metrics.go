//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

const (
	metricsNamespace = "trip_planner"
)

type (
	//counterfeiter:generate -o ../mocks/metrics.go . Metrics

	// Metrics also records the queue client activity, so it can be handed to
	// queue.WithMetrics directly.
	Metrics interface {
		queue.MetricsRecorder

		RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64)
		RecordJobSubmitted(ctx context.Context, success bool, errorType string)
		RecordStageReport(ctx context.Context, stage string, changed bool)
		RecordJobFinished(ctx context.Context, status string, duration time.Duration)
		RecordCallback(ctx context.Context, success bool, statusCode int)
		RecordUseCase(ctx context.Context, name string, success bool)
		Handler() http.Handler
		Shutdown(ctx context.Context) error
	}

	OTELMetrics struct {
		meterProvider *sdkmetric.MeterProvider
		meter         metric.Meter
		logger        Logger

		httpRequestTotal     metric.Int64Counter
		httpRequestDuration  metric.Float64Histogram
		httpRequestSize      metric.Int64Histogram
		httpResponseSize     metric.Int64Histogram
		jobSubmittedTotal    metric.Int64Counter
		jobSubmitErrorTotal  metric.Int64Counter
		stageReportTotal     metric.Int64Counter
		jobFinishedTotal     metric.Int64Counter
		jobDuration          metric.Float64Histogram
		callbackTotal        metric.Int64Counter
		useCaseTotal         metric.Int64Counter
		queuePublishTotal    metric.Int64Counter
		queuePublishDuration metric.Float64Histogram
		queueDeliveryTotal   metric.Int64Counter
		queueHandlerDuration metric.Float64Histogram
	}
)

var _ queue.MetricsRecorder = (*OTELMetrics)(nil)

func NewMetrics(ctx context.Context, cfg config.ServiceConfig, logger Logger) (Metrics, error) {
	if !cfg.Telemetry.Metrics.Enabled {
		logger.Info().Msg("metrics disabled, using NoOp implementation")

		return &NoOpMetrics{}, nil
	}

	return NewOTELMetrics(ctx, cfg, logger)
}

func NewOTELMetrics(ctx context.Context, cfg config.ServiceConfig, logger Logger) (*OTELMetrics, error) {
	endpoint := fmt.Sprintf("%s:%s", cfg.Telemetry.OtelGRPCHost, cfg.Telemetry.OtelGRPCPort)

	conn, err := grpc.NewClient(
		endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTEL collector: %w", err)
	}

	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg.AppConfig)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(meterProvider)

	provider, err := newOTELMetrics(meterProvider, cfg.AppConfig.ServiceVersion, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("otel_endpoint", endpoint).
		Msg("OTEL metrics provider initialized successfully")

	return provider, nil
}

func newOTELMetrics(meterProvider *sdkmetric.MeterProvider, version string, logger Logger) (*OTELMetrics, error) {
	provider := &OTELMetrics{
		meterProvider: meterProvider,
		meter:         meterProvider.Meter(metricsNamespace, metric.WithInstrumentationVersion(version)),
		logger:        Logger{Logger: logger.With().Str("component", "metrics").Logger()},
	}

	if err := provider.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return provider, nil
}

func newResource(ctx context.Context, app config.AppConfig) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(app.ServiceName),
			semconv.ServiceVersionKey.String(app.ServiceVersion),
			semconv.ServiceInstanceIDKey.String(app.CommitSHA),
			semconv.DeploymentEnvironmentKey.String(app.Env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return res, nil
}

func (om *OTELMetrics) initializeMetrics() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&om.httpRequestTotal, "http_requests_total", "Total number of HTTP requests", "{request}"},
		{&om.jobSubmittedTotal, "jobs_submitted_total", "Total number of submitted trip jobs", "{job}"},
		{&om.jobSubmitErrorTotal, "job_submit_errors_total", "Total number of trip submissions that failed", "{error}"},
		{&om.stageReportTotal, "stage_reports_total", "Total number of stage reports applied to jobs", "{report}"},
		{&om.jobFinishedTotal, "jobs_finished_total", "Total number of jobs that reached a terminal status", "{job}"},
		{&om.callbackTotal, "callbacks_total", "Total number of callback deliveries", "{callback}"},
		{&om.useCaseTotal, "use_cases_total", "Total number of executed commands and queries", "{call}"},
		{&om.queuePublishTotal, "queue_publish_total", "Total number of messages handed to the broker", "{message}"},
		{&om.queueDeliveryTotal, "queue_deliveries_total", "Total number of consumed deliveries by outcome", "{delivery}"},
	}

	for _, c := range counters {
		counter, err := om.meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit(c.unit))
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}

		*c.target = counter
	}

	histograms := []struct {
		target      *metric.Float64Histogram
		name        string
		description string
	}{
		{&om.httpRequestDuration, "http_request_duration_seconds", "HTTP request duration in seconds"},
		{&om.jobDuration, "job_duration_seconds", "Time from submission to terminal status in seconds"},
		{&om.queuePublishDuration, "queue_publish_duration_seconds", "Time until the broker confirmed a message in seconds"},
		{&om.queueHandlerDuration, "queue_handler_duration_seconds", "Time spent handling one delivery in seconds"},
	}

	for _, h := range histograms {
		histogram, err := om.meter.Float64Histogram(h.name, metric.WithDescription(h.description), metric.WithUnit("s"))
		if err != nil {
			return fmt.Errorf("failed to create %s histogram: %w", h.name, err)
		}

		*h.target = histogram
	}

	var err error

	om.httpRequestSize, err = om.meter.Int64Histogram(
		"http_request_size_bytes",
		metric.WithDescription("HTTP request size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_size_bytes histogram: %w", err)
	}

	om.httpResponseSize, err = om.meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("HTTP response size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_response_size_bytes histogram: %w", err)
	}

	return nil
}

func (om *OTELMetrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	om.httpRequestTotal.Add(ctx, 1,
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
			HTTPStatusCodeAttr(statusCode),
		),
	)

	om.httpRequestDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
			HTTPStatusCodeAttr(statusCode),
		),
	)

	om.httpRequestSize.Record(ctx, requestSize,
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
		),
	)

	om.httpResponseSize.Record(ctx, responseSize,
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
			HTTPStatusCodeAttr(statusCode),
		),
	)
}

func (om *OTELMetrics) RecordJobSubmitted(ctx context.Context, success bool, errorType string) {
	om.jobSubmittedTotal.Add(ctx, 1, metric.WithAttributes(StatusAttr(successStatus(success))))

	if !success && errorType != "" {
		om.jobSubmitErrorTotal.Add(ctx, 1, metric.WithAttributes(ErrorTypeAttr(errorType)))
	}
}

func (om *OTELMetrics) RecordStageReport(ctx context.Context, stage string, changed bool) {
	om.stageReportTotal.Add(ctx, 1,
		metric.WithAttributes(
			StageAttr(stage),
			ChangedAttr(changed),
		),
	)
}

func (om *OTELMetrics) RecordJobFinished(ctx context.Context, status string, duration time.Duration) {
	om.jobFinishedTotal.Add(ctx, 1, metric.WithAttributes(StatusAttr(status)))
	om.jobDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(StatusAttr(status)))
}

func (om *OTELMetrics) RecordCallback(ctx context.Context, success bool, statusCode int) {
	om.callbackTotal.Add(ctx, 1,
		metric.WithAttributes(
			StatusAttr(successStatus(success)),
			HTTPStatusCodeAttr(statusCode),
		),
	)
}

func (om *OTELMetrics) RecordUseCase(ctx context.Context, name string, success bool) {
	om.useCaseTotal.Add(ctx, 1,
		metric.WithAttributes(
			UseCaseAttr(name),
			StatusAttr(successStatus(success)),
		),
	)
}

func (om *OTELMetrics) RecordPublish(ctx context.Context, messageType, mode string, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(
		MessageTypeAttr(messageType),
		PublishModeAttr(mode),
		StatusAttr(successStatus(success)),
	)

	om.queuePublishTotal.Add(ctx, 1, attrs)
	om.queuePublishDuration.Record(ctx, duration.Seconds(), attrs)
}

func (om *OTELMetrics) RecordDelivery(ctx context.Context, messageType, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		MessageTypeAttr(messageType),
		OutcomeAttr(outcome),
	)

	om.queueDeliveryTotal.Add(ctx, 1, attrs)
	om.queueHandlerDuration.Record(ctx, duration.Seconds(), attrs)
}

func (om *OTELMetrics) Handler() http.Handler {
	return promhttp.Handler()
}

func (om *OTELMetrics) Shutdown(ctx context.Context) error {
	if err := om.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}

	return nil
}

func successStatus(success bool) string {
	if success {
		return "success"
	}

	return "error"
}
