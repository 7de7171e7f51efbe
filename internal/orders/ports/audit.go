package ports

import (
	"context"
	"time"
)

// MutationKind names one of the mutations the coordinator serialises.
type MutationKind string

const (
	MutationUpdateStatus MutationKind = "update_status"
	MutationComplete     MutationKind = "complete"
	MutationCancel       MutationKind = "cancel"
	MutationRefund       MutationKind = "refund"
)

// AuditOutcome is the result recorded for a mutation attempt.
type AuditOutcome string

const (
	OutcomeSucceeded AuditOutcome = "succeeded"
	OutcomeFailed    AuditOutcome = "failed"
	OutcomeRejected  AuditOutcome = "rejected"
	OutcomeBusy      AuditOutcome = "busy"
)

// AuditEntry is one journaled mutation attempt.
type AuditEntry struct {
	ID         string       `json:"id"`
	OrderID    string       `json:"orderId"`
	Kind       MutationKind `json:"kind"`
	Outcome    AuditOutcome `json:"outcome"`
	Actor      string       `json:"actor,omitempty"`
	FromStatus string       `json:"fromStatus,omitempty"`
	ToStatus   string       `json:"toStatus,omitempty"`
	Amount     string       `json:"amount,omitempty"`
	Detail     string       `json:"detail,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// AuditLog journals mutation attempts per order.
type AuditLog interface {
	Record(ctx context.Context, entry AuditEntry) error
	ListByOrder(ctx context.Context, orderID string, limit int) ([]AuditEntry, error)
}
