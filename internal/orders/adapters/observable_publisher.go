package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samadhanbodkhe/gudworld-admin/internal/events"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/telemetry"
)

type ObservablePublisher struct {
	publisher ports.EventPublisher
	metrics   *events.Metrics
	subject   string
}

func NewObservablePublisher(publisher ports.EventPublisher, metrics *events.Metrics, subject string) *ObservablePublisher {
	return &ObservablePublisher{
		publisher: publisher,
		metrics:   metrics,
		subject:   subject,
	}
}

func (p *ObservablePublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChanged) error {
	ctx, span := telemetry.StartSpan(ctx, "EventPublisher.PublishOrderChanged")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", event.OrderID),
		attribute.String("event.type", "order.changed"),
		attribute.String("mutation", string(event.Kind)),
		attribute.String("subject", p.subject),
	)

	start := time.Now()
	err := p.publisher.PublishOrderChanged(ctx, event)
	duration := time.Since(start).Seconds()

	p.metrics.RecordPublish(ctx, p.subject, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
