package queries

import (
	"context"
	"log/slog"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/metrics"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// ListOrdersResult is the order table plus the aggregate shown above it.
type ListOrdersResult struct {
	Orders     []domain.Order         `json:"orders"`
	Pagination ports.Pagination       `json:"pagination"`
	Stats      domain.ReconciledStats `json:"stats"`
	// VisibleCount is the number of rows left after display-only refinement.
	VisibleCount int `json:"visibleCount"`
}

type ListOrdersQueryHandler struct {
	gateway ports.OrderGateway
	cache   ports.QueryCache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewListOrdersQueryHandler(gateway ports.OrderGateway, cache ports.QueryCache, logger *slog.Logger, metrics *metrics.Metrics) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{gateway: gateway, cache: cache, logger: logger, metrics: metrics}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, filter OrderFilter) (*ListOrdersResult, error) {
	query := filter.Query()
	page, err := readThrough(ctx, h.cache, h.logger, cacheKey(ctx, "orders", query), func(ctx context.Context) (*ports.OrderPage, error) {
		return h.gateway.ListOrders(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	logInconsistent(ctx, h.logger, page.Orders)

	stats := domain.ReconcileStats(page.Stats, domain.CountStats(page.Orders))
	h.metrics.RecordStatsSource(ctx, "orders", string(stats.Source), stats.Partial)

	visible := filter.Refine(page.Orders)
	return &ListOrdersResult{
		Orders:       visible,
		Pagination:   page.Pagination,
		Stats:        stats,
		VisibleCount: len(visible),
	}, nil
}

// logInconsistent reports orders that break the amount invariants. They are still shown.
func logInconsistent(ctx context.Context, logger *slog.Logger, orders []domain.Order) {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			logger.WarnContext(ctx, "upstream order is inconsistent", "order_id", o.ID, "error", err)
		}
	}
}
