package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testConfig() Config {
	return Config{
		ServiceName:    "gudworld-admin",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		EnableTracing:  true,
		EnableMetrics:  true,
		SampleRate:     1.0,
	}
}

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp, mp, prop := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		otel.SetTextMapPropagator(prop)
	})
}

func shutdown(t *testing.T, tel *Telemetry) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing service name", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: ErrMissingServiceName},
		{name: "missing version", mutate: func(c *Config) { c.ServiceVersion = "" }, wantErr: ErrMissingServiceVersion},
		{name: "sample rate above one", mutate: func(c *Config) { c.SampleRate = 1.5 }, wantErr: ErrInvalidSampleRate},
		{name: "negative sample rate", mutate: func(c *Config) { c.SampleRate = -0.1 }, wantErr: ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitializeWithoutEndpointKeepsNoopProviders(t *testing.T) {
	restoreGlobals(t)
	before := otel.GetTracerProvider()

	tel, err := Initialize(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	defer shutdown(t, tel)

	if otel.GetTracerProvider() != before {
		t.Error("tracer provider replaced without an endpoint")
	}
	if tel.Meter("test") == nil {
		t.Error("Meter() returned nil")
	}
}

func TestInitializeExportsToSuppliedBackends(t *testing.T) {
	restoreGlobals(t)
	spans := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()

	tel, err := Initialize(context.Background(), testConfig(),
		WithTraceExporter(spans),
		WithMetricReader(reader),
	)
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "OrderMutation.refund")
	if TraceID(ctx) == "" {
		t.Error("expected a trace id on the span context")
	}
	span.End()

	counter, err := tel.Meter("test").Int64Counter("probe_total")
	if err != nil {
		t.Fatalf("Int64Counter() error: %v", err)
	}
	counter.Add(ctx, 1)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Error("expected collected metrics")
	}

	if err := tel.tracerProvider.ForceFlush(ctx); err != nil {
		t.Fatalf("ForceFlush() error: %v", err)
	}
	if got := len(spans.GetSpans()); got != 1 {
		t.Errorf("expected 1 exported span, got %d", got)
	}
	shutdown(t, tel)
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 0, want: "AlwaysOffSampler"},
		{rate: 1, want: "ParentBased{root:AlwaysOnSampler"},
		{rate: 0.25, want: "ParentBased{root:TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		desc := createSampler(tt.rate).Description()
		if len(desc) < len(tt.want) || desc[:len(tt.want)] != tt.want {
			t.Errorf("createSampler(%v) = %q, want prefix %q", tt.rate, desc, tt.want)
		}
	}
}
