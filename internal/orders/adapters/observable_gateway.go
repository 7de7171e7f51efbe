package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/upstream"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/telemetry"
)

type ObservableGateway struct {
	gateway ports.OrderGateway
	metrics *upstream.Metrics
}

var _ ports.OrderGateway = (*ObservableGateway)(nil)

func NewObservableGateway(gateway ports.OrderGateway, metrics *upstream.Metrics) *ObservableGateway {
	return &ObservableGateway{
		gateway: gateway,
		metrics: metrics,
	}
}

func observe[T any](ctx context.Context, g *ObservableGateway, operation string, attrs []attribute.KeyValue, call func(context.Context) (T, error)) (T, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderGateway."+operation)
	defer span.End()

	telemetry.AddSpanAttributes(span, append(attrs, attribute.String("operation", operation))...)

	start := time.Now()
	result, err := call(ctx)
	duration := time.Since(start).Seconds()

	g.metrics.RecordOperation(ctx, operation, duration, err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return result, err
	}

	telemetry.SetSpanSuccess(span)
	return result, nil
}

func listAttrs(query ports.ListQuery) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int("page", query.Page),
		attribute.Int("page_size", query.Limit),
	}
	if query.Status != "" {
		attrs = append(attrs, attribute.String("filter.status", query.Status))
	}
	if query.PaymentStatus != "" {
		attrs = append(attrs, attribute.String("filter.payment_status", query.PaymentStatus))
	}
	return attrs
}

func (g *ObservableGateway) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return observe(ctx, g, "GetOrder", []attribute.KeyValue{attribute.String("order.id", id)},
		func(ctx context.Context) (*domain.Order, error) { return g.gateway.GetOrder(ctx, id) })
}

func (g *ObservableGateway) ListOrders(ctx context.Context, query ports.ListQuery) (*ports.OrderPage, error) {
	return observe(ctx, g, "ListOrders", listAttrs(query),
		func(ctx context.Context) (*ports.OrderPage, error) { return g.gateway.ListOrders(ctx, query) })
}

func (g *ObservableGateway) ListCancelled(ctx context.Context, query ports.ListQuery) (*ports.OrderPage, error) {
	return observe(ctx, g, "ListCancelled", listAttrs(query),
		func(ctx context.Context) (*ports.OrderPage, error) { return g.gateway.ListCancelled(ctx, query) })
}

func (g *ObservableGateway) ListRefunds(ctx context.Context, query ports.ListQuery) (*ports.RefundPage, error) {
	return observe(ctx, g, "ListRefunds", listAttrs(query),
		func(ctx context.Context) (*ports.RefundPage, error) { return g.gateway.ListRefunds(ctx, query) })
}

func (g *ObservableGateway) UpdateStatus(ctx context.Context, id string, req ports.UpdateStatusRequest) (*domain.Order, error) {
	attrs := []attribute.KeyValue{
		attribute.String("order.id", id),
		attribute.String("order.new_status", string(req.Status)),
	}
	return observe(ctx, g, "UpdateStatus", attrs,
		func(ctx context.Context) (*domain.Order, error) { return g.gateway.UpdateStatus(ctx, id, req) })
}

func (g *ObservableGateway) Complete(ctx context.Context, id string) (*domain.Order, error) {
	return observe(ctx, g, "Complete", []attribute.KeyValue{attribute.String("order.id", id)},
		func(ctx context.Context) (*domain.Order, error) { return g.gateway.Complete(ctx, id) })
}

func (g *ObservableGateway) Cancel(ctx context.Context, id string, reason string) (*domain.Order, error) {
	return observe(ctx, g, "Cancel", []attribute.KeyValue{attribute.String("order.id", id)},
		func(ctx context.Context) (*domain.Order, error) { return g.gateway.Cancel(ctx, id, reason) })
}

func (g *ObservableGateway) Refund(ctx context.Context, id string, req ports.RefundRequest) (*ports.RefundResult, error) {
	attrs := []attribute.KeyValue{
		attribute.String("order.id", id),
		attribute.String("refund.amount", req.Amount.String()),
	}
	return observe(ctx, g, "Refund", attrs,
		func(ctx context.Context) (*ports.RefundResult, error) { return g.gateway.Refund(ctx, id, req) })
}
