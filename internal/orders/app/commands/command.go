package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// Command is a mutation request addressed to a single order.
type Command interface {
	Kind() ports.MutationKind
	Target() string
	Validate() error
}

// Result is what a mutation handler reports back. Before is the order as fetched just
// prior to validation, After is the order the upstream returned.
type Result struct {
	Before        domain.Order
	After         domain.Order
	Refund        *domain.Refund
	RefundPending bool
}

// CommandHandler executes a mutation against the upstream service.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) (*Result, error)
}

// OutcomeOf classifies a mutation error for the audit journal and metrics.
func OutcomeOf(err error) ports.AuditOutcome {
	var validation *domain.ValidationError
	var transition *domain.TransitionError
	switch {
	case err == nil:
		return ports.OutcomeSucceeded
	case errors.As(err, &validation), errors.As(err, &transition):
		return ports.OutcomeRejected
	default:
		return ports.OutcomeFailed
	}
}

func requireOrderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ValidationError{
			Message:     "order id is required",
			FieldErrors: map[string]string{"orderId": "order id is required"},
		}
	}
	return nil
}

// fetchForMutation loads the current order and refuses to mutate one that breaks its own invariants.
func fetchForMutation(ctx context.Context, gateway ports.OrderGateway, id string) (*domain.Order, error) {
	order, err := gateway.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: "order data is inconsistent: " + err.Error()}
	}
	return order, nil
}
