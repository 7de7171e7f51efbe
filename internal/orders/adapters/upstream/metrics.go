package upstream

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	requestDuration   metric.Float64Histogram
	operationDuration metric.Float64Histogram
	operationErrors   metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.requestDuration, err = meter.Float64Histogram(
		"upstream_request_duration_seconds",
		metric.WithDescription("Order service HTTP request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create upstream_request_duration histogram: %w", err)
	}

	m.operationDuration, err = meter.Float64Histogram(
		"upstream_operation_duration_seconds",
		metric.WithDescription("Order gateway operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create upstream_operation_duration histogram: %w", err)
	}

	m.operationErrors, err = meter.Int64Counter(
		"upstream_operation_errors_total",
		metric.WithDescription("Order gateway operations that returned an error"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create upstream_operation_errors_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordRequest(ctx context.Context, method, statusCode string, durationSeconds float64) {
	m.requestDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status_code", statusCode),
	))
}

func (m *Metrics) RecordOperation(ctx context.Context, operation string, durationSeconds float64, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.operationDuration.Record(ctx, durationSeconds, attrs)
	if err != nil {
		m.operationErrors.Add(ctx, 1, attrs)
	}
}
