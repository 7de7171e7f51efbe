package commands

import (
	"context"
	"strings"
	"time"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

type CancelOrderCommand struct {
	OrderID string
	Reason  string
	Actor   string
}

func (c CancelOrderCommand) Kind() ports.MutationKind { return ports.MutationCancel }
func (c CancelOrderCommand) Target() string           { return c.OrderID }

func (c CancelOrderCommand) Validate() error {
	if err := requireOrderID(c.OrderID); err != nil {
		return err
	}
	if strings.TrimSpace(c.Reason) == "" {
		return &domain.ValidationError{
			Message:     "cancellation reason is required",
			FieldErrors: map[string]string{"cancellationReason": "cancellation reason is required"},
		}
	}
	return nil
}

type CancelOrderCommandHandler struct {
	gateway ports.OrderGateway
}

func NewCancelOrderCommandHandler(gateway ports.OrderGateway) *CancelOrderCommandHandler {
	return &CancelOrderCommandHandler{gateway: gateway}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := fetchForMutation(ctx, h.gateway, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	_, outcome, err := domain.Cancel(*order, cmd.Reason, cmd.Actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	updated, err := h.gateway.Cancel(ctx, order.ID, strings.TrimSpace(cmd.Reason))
	if err != nil {
		return nil, err
	}

	return &Result{Before: *order, After: *updated, RefundPending: outcome.RefundPending}, nil
}
