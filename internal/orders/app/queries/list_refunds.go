package queries

import (
	"context"
	"log/slog"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/metrics"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

type ListRefundsResult struct {
	Refunds      []domain.Refund                  `json:"refunds"`
	Pagination   ports.Pagination                 `json:"pagination"`
	Analytics    domain.ReconciledRefundAnalytics `json:"analytics"`
	VisibleCount int                              `json:"visibleCount"`
}

type ListRefundsQueryHandler struct {
	gateway ports.OrderGateway
	cache   ports.QueryCache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewListRefundsQueryHandler(gateway ports.OrderGateway, cache ports.QueryCache, logger *slog.Logger, metrics *metrics.Metrics) *ListRefundsQueryHandler {
	return &ListRefundsQueryHandler{gateway: gateway, cache: cache, logger: logger, metrics: metrics}
}

func (h *ListRefundsQueryHandler) Handle(ctx context.Context, filter RefundFilter) (*ListRefundsResult, error) {
	query := filter.Query()
	page, err := readThrough(ctx, h.cache, h.logger, cacheKey(ctx, "refunds", query), func(ctx context.Context) (*ports.RefundPage, error) {
		return h.gateway.ListRefunds(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	analytics := domain.ReconcileRefundAnalytics(page.Analytics, domain.CountRefundAnalytics(page.Refunds))
	h.metrics.RecordStatsSource(ctx, "refunds", string(analytics.Source), analytics.Partial)

	visible := filter.Refine(page.Refunds)
	return &ListRefundsResult{
		Refunds:      visible,
		Pagination:   page.Pagination,
		Analytics:    analytics,
		VisibleCount: len(visible),
	}, nil
}
