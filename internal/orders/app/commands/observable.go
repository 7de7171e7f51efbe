package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/metrics"
	"github.com/samadhanbodkhe/gudworld-admin/internal/telemetry"
)

type ObservableCommandHandler[C Command] struct {
	handler CommandHandler[C]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler[C Command](handler CommandHandler[C], logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler[C] {
	return &ObservableCommandHandler[C]{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler[C]) Handle(ctx context.Context, cmd C) (*Result, error) {
	kind := string(cmd.Kind())
	ctx, span := telemetry.StartSpan(ctx, "OrderMutation."+kind)
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", cmd.Target()),
		attribute.String("mutation", kind),
	)

	start := time.Now()
	var result *Result
	var err error
	defer func() {
		o.metrics.RecordMutation(ctx, kind, string(OutcomeOf(err)), time.Since(start).Seconds())
	}()

	o.logger.InfoContext(ctx, "applying order mutation",
		"order_id", cmd.Target(),
		"mutation", kind,
	)

	result, err = o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "order mutation failed",
			"error", err,
			"order_id", cmd.Target(),
			"mutation", kind,
			"outcome", OutcomeOf(err),
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.status.before", string(result.Before.Status)),
		attribute.String("order.status.after", string(result.After.Status)),
		attribute.String("order.payment_status", string(result.After.PaymentStatus)),
	)
	if result.Refund != nil {
		o.metrics.RecordRefunded(ctx, result.Refund.RefundAmount)
		telemetry.AddSpanAttributes(span, attribute.String("refund.amount", result.Refund.RefundAmount.String()))
	}

	o.logger.InfoContext(ctx, "order mutation applied",
		"order_id", cmd.Target(),
		"mutation", kind,
		"status", result.After.Status,
		"payment_status", result.After.PaymentStatus,
	)

	telemetry.SetSpanSuccess(span)

	return result, nil
}
