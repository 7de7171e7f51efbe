package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
)

type Metrics struct {
	mutationsTotal   metric.Int64Counter
	mutationDuration metric.Float64Histogram
	busyRejections   metric.Int64Counter
	refundedAmount   metric.Float64Counter
	statsReconciled  metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.mutationsTotal, err = meter.Int64Counter(
		"order_mutations_total",
		metric.WithDescription("Order mutations attempted, by kind and outcome"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_mutations_total counter: %w", err)
	}

	m.mutationDuration, err = meter.Float64Histogram(
		"order_mutation_duration_seconds",
		metric.WithDescription("Duration of order mutations including the upstream call"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_mutation_duration histogram: %w", err)
	}

	m.busyRejections, err = meter.Int64Counter(
		"order_mutation_busy_total",
		metric.WithDescription("Mutations rejected because another one was pending for the same order"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_mutation_busy_total counter: %w", err)
	}

	m.refundedAmount, err = meter.Float64Counter(
		"order_refunded_amount_total",
		metric.WithDescription("Refunded amount confirmed by the upstream service"),
		metric.WithUnit("{INR}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_refunded_amount_total counter: %w", err)
	}

	m.statsReconciled, err = meter.Int64Counter(
		"order_stats_reconciled_total",
		metric.WithDescription("Aggregates shown to the console, by view and source"),
		metric.WithUnit("{reconciliation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_stats_reconciled_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMutation(ctx context.Context, kind, outcome string, durationSeconds float64) {
	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
	m.mutationDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *Metrics) RecordBusy(ctx context.Context, kind string) {
	m.busyRejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *Metrics) RecordRefunded(ctx context.Context, amount money.Amount) {
	m.refundedAmount.Add(ctx, amount.Decimal().InexactFloat64())
}

func (m *Metrics) RecordStatsSource(ctx context.Context, view, source string, partial bool) {
	m.statsReconciled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("view", view),
		attribute.String("source", source),
		attribute.String("partial", strconv.FormatBool(partial)),
	))
}
