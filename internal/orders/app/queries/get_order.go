package queries

import (
	"context"
	"strings"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// GetOrderQuery represents a request to retrieve an order by its ID.
type GetOrderQuery struct {
	OrderID string
}

// OrderDetail is an order together with the actions the console may offer for it.
type OrderDetail struct {
	Order            domain.Order         `json:"order"`
	RefundableAmount money.Amount         `json:"refundableAmount"`
	RefundPending    bool                 `json:"refundPending"`
	AllowedTargets   []domain.OrderStatus `json:"allowedTargets"`
	CanComplete      bool                 `json:"canComplete"`
	CanCancel        bool                 `json:"canCancel"`
	CanRefund        bool                 `json:"canRefund"`
	// Busy is set while a mutation for the order is in flight.
	Busy bool `json:"busy"`
}

// GetOrderQueryHandler executes GetOrderQuery and returns the order if found.
type GetOrderQueryHandler struct {
	gateway ports.OrderGateway
}

// NewGetOrderQueryHandler constructs a GetOrderQueryHandler.
func NewGetOrderQueryHandler(gateway ports.OrderGateway) *GetOrderQueryHandler {
	return &GetOrderQueryHandler{gateway: gateway}
}

// Handle fetches the order and derives what may be done with it next.
func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	order, err := h.gateway.GetOrder(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{
		Order:            *order,
		RefundableAmount: domain.RefundableAmount(*order),
		RefundPending:    domain.AwaitingRefund(*order),
		AllowedTargets:   domain.AllowedTargets(*order),
		CanComplete:      domain.CheckComplete(*order) == nil,
		CanCancel:        !order.IsTerminal(),
		CanRefund:        domain.CanRefund(*order),
	}
	if detail.AllowedTargets == nil {
		detail.AllowedTargets = []domain.OrderStatus{}
	}
	return detail, nil
}

// Validate ensures the query has valid parameters.
func (q GetOrderQuery) Validate() error {
	if strings.TrimSpace(q.OrderID) == "" {
		return &domain.ValidationError{
			Message:     "order id is required",
			FieldErrors: map[string]string{"orderId": "order id is required"},
		}
	}
	return nil
}
