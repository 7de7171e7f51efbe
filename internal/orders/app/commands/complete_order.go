package commands

import (
	"context"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

type CompleteOrderCommand struct {
	OrderID string
}

func (c CompleteOrderCommand) Kind() ports.MutationKind { return ports.MutationComplete }
func (c CompleteOrderCommand) Target() string           { return c.OrderID }
func (c CompleteOrderCommand) Validate() error          { return requireOrderID(c.OrderID) }

type CompleteOrderCommandHandler struct {
	gateway ports.OrderGateway
}

func NewCompleteOrderCommandHandler(gateway ports.OrderGateway) *CompleteOrderCommandHandler {
	return &CompleteOrderCommandHandler{gateway: gateway}
}

func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := fetchForMutation(ctx, h.gateway, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckComplete(*order); err != nil {
		return nil, err
	}

	updated, err := h.gateway.Complete(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &Result{Before: *order, After: *updated}, nil
}
