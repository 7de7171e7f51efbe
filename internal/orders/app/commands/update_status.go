package commands

import (
	"context"
	"strings"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

type UpdateStatusCommand struct {
	OrderID        string
	Status         string
	TrackingNumber string
}

func (c UpdateStatusCommand) Kind() ports.MutationKind { return ports.MutationUpdateStatus }
func (c UpdateStatusCommand) Target() string           { return c.OrderID }

func (c UpdateStatusCommand) Validate() error {
	if err := requireOrderID(c.OrderID); err != nil {
		return err
	}
	if _, err := domain.ParseOrderStatus(c.Status); err != nil {
		return &domain.ValidationError{
			Message:     "invalid target status",
			FieldErrors: map[string]string{"status": err.Error()},
		}
	}
	return nil
}

type UpdateStatusCommandHandler struct {
	gateway ports.OrderGateway
}

func NewUpdateStatusCommandHandler(gateway ports.OrderGateway) *UpdateStatusCommandHandler {
	return &UpdateStatusCommandHandler{gateway: gateway}
}

func (h *UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	target, _ := domain.ParseOrderStatus(cmd.Status)

	order, err := fetchForMutation(ctx, h.gateway, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckTransition(*order, target, cmd.TrackingNumber); err != nil {
		return nil, err
	}

	req := ports.UpdateStatusRequest{Status: target}
	if domain.RequiresTracking(target) {
		req.TrackingNumber = strings.TrimSpace(cmd.TrackingNumber)
	}

	updated, err := h.gateway.UpdateStatus(ctx, order.ID, req)
	if err != nil {
		return nil, err
	}

	return &Result{Before: *order, After: *updated}, nil
}
