package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

func TestRecordPublish(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordPublish(ctx, DefaultSubject, 0.01, true)
	metrics.RecordPublish(ctx, DefaultSubject, 0.5, false)
	metrics.RecordReceived(ctx, DefaultSubject)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
			if m.Name == "event_publish_latency_seconds" {
				histogram, ok := m.Data.(metricdata.Histogram[float64])
				if !ok {
					t.Fatal("Expected Histogram[float64] data type")
				}
				if len(histogram.DataPoints) != 2 {
					t.Errorf("Expected 2 data points (success and error), got %d", len(histogram.DataPoints))
				}
			}
		}
	}
	for _, name := range []string{"event_publish_latency_seconds", "events_received_total"} {
		if !found[name] {
			t.Errorf("%s metric not found", name)
		}
	}
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := p.PublishOrderChanged(context.Background(), ports.OrderChanged{OrderID: "order-1"}); err != nil {
		t.Fatalf("PublishOrderChanged() error: %v", err)
	}
}
