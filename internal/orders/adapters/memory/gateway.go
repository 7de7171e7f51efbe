package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

// Gateway stands in for the upstream order service in local development and tests.
// It applies the same lifecycle rules the real service enforces.
type Gateway struct {
	mu       sync.RWMutex
	orders   map[string]domain.Order
	refunds  []domain.Refund
	replayed map[string]ports.RefundResult
	now      func() time.Time
}

// NewGateway constructs an empty in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{
		orders:   make(map[string]domain.Order),
		replayed: make(map[string]ports.RefundResult),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Seed stores orders as they are.
func (g *Gateway) Seed(orders ...domain.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, o := range orders {
		g.orders[o.ID] = o
	}
}

// GetOrder fetches a single order by identifier.
func (g *Gateway) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	order, ok := g.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &order, nil
}

// ListOrders filters, sorts newest first and paginates. Stats cover the whole filtered set.
func (g *Gateway) ListOrders(_ context.Context, q ports.ListQuery) (*ports.OrderPage, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	matched := g.matchOrders(func(o domain.Order) bool {
		if q.Status != "" && string(o.Status) != q.Status {
			return false
		}
		if q.PaymentStatus != "" && string(o.PaymentStatus) != q.PaymentStatus {
			return false
		}
		return matchesSearch(q.Search, o.ID, o.DisplayInvoice(), o.TrackingNumber, o.Customer.Name, o.Customer.Email, o.Customer.Phone)
	})

	stats := domain.CountStats(matched)
	window, pagination := paginate(matched, q.Page, q.Limit)
	return &ports.OrderPage{Orders: window, Pagination: pagination, Stats: &stats}, nil
}

// ListCancelled returns cancelled orders. Like the real service it sends no stats.
func (g *Gateway) ListCancelled(_ context.Context, q ports.ListQuery) (*ports.OrderPage, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	matched := g.matchOrders(func(o domain.Order) bool {
		return o.Status == domain.StatusCancelled &&
			matchesSearch(q.Search, o.ID, o.DisplayInvoice(), o.CancellationReason, o.Customer.Name, o.Customer.Email)
	})

	window, pagination := paginate(matched, q.Page, q.Limit)
	return &ports.OrderPage{Orders: window, Pagination: pagination}, nil
}

// ListRefunds returns refund records newest first with analytics over the filtered set.
func (g *Gateway) ListRefunds(_ context.Context, q ports.ListQuery) (*ports.RefundPage, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var matched []domain.Refund
	for _, r := range g.refunds {
		if q.Status != "" && string(r.Status) != q.Status {
			continue
		}
		if !matchesSearch(q.Search, r.ID, r.OrderID, r.InvoiceNumber, r.RefundReason) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	analytics := domain.CountRefundAnalytics(matched)
	window, pagination := paginate(matched, q.Page, q.Limit)
	return &ports.RefundPage{Refunds: window, Pagination: pagination, Analytics: &analytics}, nil
}

// UpdateStatus applies a status transition.
func (g *Gateway) UpdateStatus(_ context.Context, id string, req ports.UpdateStatusRequest) (*domain.Order, error) {
	return g.mutate(id, func(o domain.Order) (domain.Order, error) {
		return domain.Transition(o, req.Status, domain.TransitionContext{TrackingNumber: req.TrackingNumber, Now: g.now()})
	})
}

// Complete closes a delivered order.
func (g *Gateway) Complete(_ context.Context, id string) (*domain.Order, error) {
	return g.mutate(id, func(o domain.Order) (domain.Order, error) {
		return domain.Complete(o, g.now())
	})
}

// Cancel cancels the order on behalf of the caller.
func (g *Gateway) Cancel(ctx context.Context, id string, reason string) (*domain.Order, error) {
	actor := session.Actor(ctx)
	return g.mutate(id, func(o domain.Order) (domain.Order, error) {
		next, _, err := domain.Cancel(o, reason, actor, g.now())
		return next, err
	})
}

// Refund records a refund. A repeated idempotency key returns the first result unchanged.
func (g *Gateway) Refund(_ context.Context, id string, req ports.RefundRequest) (*ports.RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if req.IdempotencyKey != "" {
		if prior, ok := g.replayed[req.IdempotencyKey]; ok {
			return &prior, nil
		}
	}

	order, ok := g.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}

	next, refund, err := domain.ApplyRefund(order, domain.RefundInput{
		RefundID: ulid.Make().String(),
		Amount:   req.Amount,
		Reason:   req.Reason,
		Now:      g.now(),
	})
	if err != nil {
		return nil, err
	}

	g.orders[id] = next
	g.refunds = append(g.refunds, refund)
	result := ports.RefundResult{Order: next, Refund: refund}
	if req.IdempotencyKey != "" {
		g.replayed[req.IdempotencyKey] = result
	}
	return &result, nil
}

func (g *Gateway) mutate(id string, apply func(domain.Order) (domain.Order, error)) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	next, err := apply(order)
	if err != nil {
		return nil, err
	}
	g.orders[id] = next
	return &next, nil
}

func (g *Gateway) matchOrders(keep func(domain.Order) bool) []domain.Order {
	var result []domain.Order
	for _, o := range g.orders {
		if keep(o) {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// paginate is 1-based.
func paginate[T any](items []T, page, limit int) ([]T, ports.Pagination) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	p := ports.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      len(items),
		TotalPages: (len(items) + limit - 1) / limit,
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, p
	}
	end := min(start+limit, len(items))

	window := make([]T, end-start)
	copy(window, items[start:end])
	return window, p
}

func matchesSearch(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
