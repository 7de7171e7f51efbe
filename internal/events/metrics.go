package events

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	publishLatency metric.Float64Histogram
	received       metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.publishLatency, err = meter.Float64Histogram(
		"event_publish_latency_seconds",
		metric.WithDescription("Invalidation event publish latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create event_publish_latency histogram: %w", err)
	}

	m.received, err = meter.Int64Counter(
		"events_received_total",
		metric.WithDescription("Invalidation events received from other instances"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create events_received_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordPublish(ctx context.Context, subject string, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.publishLatency.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordReceived(ctx context.Context, subject string) {
	m.received.Add(ctx, 1, metric.WithAttributes(attribute.String("subject", subject)))
}
