package commands

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

type ProcessRefundCommand struct {
	OrderID        string
	Amount         money.Amount
	Reason         string
	IdempotencyKey string
}

func (c ProcessRefundCommand) Kind() ports.MutationKind { return ports.MutationRefund }
func (c ProcessRefundCommand) Target() string           { return c.OrderID }
func (c ProcessRefundCommand) Validate() error          { return requireOrderID(c.OrderID) }

type ProcessRefundCommandHandler struct {
	gateway ports.OrderGateway
}

func NewProcessRefundCommandHandler(gateway ports.OrderGateway) *ProcessRefundCommandHandler {
	return &ProcessRefundCommandHandler{gateway: gateway}
}

// Handle validates against a freshly fetched order so that a resubmitted form is checked
// against the refund total the server has already confirmed.
func (h *ProcessRefundCommandHandler) Handle(ctx context.Context, cmd ProcessRefundCommand) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := fetchForMutation(ctx, h.gateway, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateRefund(*order, cmd.Amount, cmd.Reason); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	res, err := h.gateway.Refund(ctx, order.ID, ports.RefundRequest{
		Amount:         cmd.Amount,
		Reason:         strings.TrimSpace(cmd.Reason),
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	refund := res.Refund
	return &Result{Before: *order, After: res.Order, Refund: &refund}, nil
}
