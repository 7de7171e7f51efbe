package events

import (
	"context"
	"log/slog"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// NoopPublisher logs events without sending them anywhere. Used when NATS is not configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (n *NoopPublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChanged) error {
	n.logger.DebugContext(ctx, "event::order_changed",
		"order_id", event.OrderID,
		"mutation", event.Kind,
		"status", event.Status,
	)
	return nil
}
