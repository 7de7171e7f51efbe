package metrics

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordMutation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordMutation(ctx, "refund", "succeeded", 0.2)
	m.RecordMutation(ctx, "refund", "rejected", 0.01)
	m.RecordMutation(ctx, "cancel", "succeeded", 0.1)

	got := collect(t, reader)

	counter, ok := got["order_mutations_total"].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("order_mutations_total missing or not Sum[int64]")
	}
	if len(counter.DataPoints) != 3 {
		t.Errorf("Expected 3 data points, got %d", len(counter.DataPoints))
	}

	histogram, ok := got["order_mutation_duration_seconds"].Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("order_mutation_duration_seconds missing or not Histogram[float64]")
	}
	if len(histogram.DataPoints) != 2 {
		t.Errorf("Expected 2 data points (one per kind), got %d", len(histogram.DataPoints))
	}
}

func TestRecordBusyAndRefunded(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordBusy(ctx, "refund")
	m.RecordBusy(ctx, "refund")
	m.RecordRefunded(ctx, money.MustParse("400.50"))
	m.RecordRefunded(ctx, money.MustParse("99.50"))

	got := collect(t, reader)

	busy, ok := got["order_mutation_busy_total"].Data.(metricdata.Sum[int64])
	if !ok || len(busy.DataPoints) != 1 {
		t.Fatalf("unexpected busy data: %+v", got["order_mutation_busy_total"].Data)
	}
	if busy.DataPoints[0].Value != 2 {
		t.Errorf("busy count = %d, want 2", busy.DataPoints[0].Value)
	}

	refunded, ok := got["order_refunded_amount_total"].Data.(metricdata.Sum[float64])
	if !ok || len(refunded.DataPoints) != 1 {
		t.Fatalf("unexpected refunded data: %+v", got["order_refunded_amount_total"].Data)
	}
	if refunded.DataPoints[0].Value != 500 {
		t.Errorf("refunded = %v, want 500", refunded.DataPoints[0].Value)
	}
}

func TestRecordStatsSource(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordStatsSource(ctx, "orders", "server", false)
	m.RecordStatsSource(ctx, "orders", "page", true)
	m.RecordStatsSource(ctx, "orders", "page", true)

	got := collect(t, reader)
	sum, ok := got["order_stats_reconciled_total"].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("order_stats_reconciled_total missing")
	}
	if len(sum.DataPoints) != 2 {
		t.Errorf("Expected 2 data points, got %d", len(sum.DataPoints))
	}
}
