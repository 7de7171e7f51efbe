package queries

import (
	"context"
	"log/slog"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// CancelledOrder is a cancelled order row with its outstanding refund.
type CancelledOrder struct {
	domain.Order
	RefundPending    bool         `json:"refundPending"`
	RefundableAmount money.Amount `json:"refundableAmount"`
}

type ListCancelledResult struct {
	Orders       []CancelledOrder `json:"orders"`
	Pagination   ports.Pagination `json:"pagination"`
	VisibleCount int              `json:"visibleCount"`
}

type ListCancelledQueryHandler struct {
	gateway ports.OrderGateway
	cache   ports.QueryCache
	logger  *slog.Logger
}

func NewListCancelledQueryHandler(gateway ports.OrderGateway, cache ports.QueryCache, logger *slog.Logger) *ListCancelledQueryHandler {
	return &ListCancelledQueryHandler{gateway: gateway, cache: cache, logger: logger}
}

func (h *ListCancelledQueryHandler) Handle(ctx context.Context, filter CancelledFilter) (*ListCancelledResult, error) {
	query := filter.Query()
	page, err := readThrough(ctx, h.cache, h.logger, cacheKey(ctx, "cancelled", query), func(ctx context.Context) (*ports.OrderPage, error) {
		return h.gateway.ListCancelled(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	logInconsistent(ctx, h.logger, page.Orders)

	visible := filter.Refine(page.Orders)
	rows := make([]CancelledOrder, 0, len(visible))
	for _, o := range visible {
		rows = append(rows, CancelledOrder{
			Order:            o,
			RefundPending:    domain.AwaitingRefund(o),
			RefundableAmount: domain.RefundableAmount(o),
		})
	}

	return &ListCancelledResult{
		Orders:       rows,
		Pagination:   page.Pagination,
		VisibleCount: len(rows),
	}, nil
}
