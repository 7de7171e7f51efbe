package database

import (
	"context"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordQuery(ctx, "insert_audit_entry", 0.1, nil)
	metrics.RecordQuery(ctx, "list_audit_entries", 0.05, nil)
	metrics.RecordQuery(ctx, "list_audit_entries", 0.2, errors.New("timeout"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var durations, failures bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "db_query_duration_seconds":
				histogram, ok := m.Data.(metricdata.Histogram[float64])
				if !ok {
					t.Fatal("Expected Histogram[float64] data type")
				}
				durations = len(histogram.DataPoints) == 2
			case "db_query_errors_total":
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatal("Expected Sum[int64] data type")
				}
				failures = len(sum.DataPoints) == 1 && sum.DataPoints[0].Value == 1
			}
		}
	}

	if !durations {
		t.Error("expected one duration series per operation")
	}
	if !failures {
		t.Error("expected a single failed query")
	}
}
