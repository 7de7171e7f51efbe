package ports

import (
	"context"
	"time"
)

// OrderChanged announces that a mutation succeeded and cached views of the order are stale.
type OrderChanged struct {
	OrderID    string       `json:"orderId"`
	Kind       MutationKind `json:"kind"`
	Status     string       `json:"status"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// EventPublisher broadcasts invalidation events to other console instances.
type EventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChanged) error
}
