package http

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics covers the admin API surface. Routes are chi patterns so order ids stay out of labels.
type Metrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	duration, err := meter.Float64Histogram(
		"admin_api_request_duration_seconds",
		metric.WithDescription("Admin API request duration by route"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create admin_api_request_duration_seconds histogram: %w", err)
	}

	requests, err := meter.Int64Counter(
		"admin_api_requests_total",
		metric.WithDescription("Admin API requests by route and status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create admin_api_requests_total counter: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter(
		"admin_api_requests_in_flight",
		metric.WithDescription("Admin API requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create admin_api_requests_in_flight counter: %w", err)
	}

	return &Metrics{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// Started marks a request as in flight; the returned func records its completion.
func (m *Metrics) Started(ctx context.Context, method string) func(route string, statusCode int, durationSeconds float64) {
	m.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
	return func(route string, statusCode int, durationSeconds float64) {
		m.inFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("method", method)))
		m.RecordRequest(ctx, method, route, statusCode, durationSeconds)
	}
}

func (m *Metrics) RecordRequest(ctx context.Context, method, route string, statusCode int, durationSeconds float64) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", statusCode),
		attribute.String("status_class", statusClass(statusCode)),
	))
	m.duration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
