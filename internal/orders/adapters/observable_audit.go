package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samadhanbodkhe/gudworld-admin/internal/database"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/telemetry"
)

type ObservableAuditLog struct {
	log     ports.AuditLog
	metrics *database.Metrics
}

func NewObservableAuditLog(log ports.AuditLog, metrics *database.Metrics) *ObservableAuditLog {
	return &ObservableAuditLog{
		log:     log,
		metrics: metrics,
	}
}

func (a *ObservableAuditLog) Record(ctx context.Context, entry ports.AuditEntry) error {
	ctx, span := telemetry.StartSpan(ctx, "AuditLog.Record")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", entry.OrderID),
		attribute.String("mutation", string(entry.Kind)),
		attribute.String("outcome", string(entry.Outcome)),
	)

	start := time.Now()
	err := a.log.Record(ctx, entry)
	a.metrics.RecordQuery(ctx, "insert_audit_entry", time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (a *ObservableAuditLog) ListByOrder(ctx context.Context, orderID string, limit int) ([]ports.AuditEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuditLog.ListByOrder")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.Int("limit", limit),
	)

	start := time.Now()
	entries, err := a.log.ListByOrder(ctx, orderID, limit)
	a.metrics.RecordQuery(ctx, "list_audit_entries", time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(entries)))
	telemetry.SetSpanSuccess(span)
	return entries, nil
}
