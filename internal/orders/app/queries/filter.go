package queries

import (
	"strings"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// DefaultPageSize is the list window used when none is configured.
const DefaultPageSize = 10

// OrderFilter composes list predicates for the order table. Changing any predicate
// returns the table to the first page.
type OrderFilter struct {
	page          int
	limit         int
	status        domain.OrderStatus
	paymentStatus domain.PaymentStatus
	search        string
}

func NewOrderFilter(limit int) OrderFilter {
	return OrderFilter{page: 1, limit: normalizeLimit(limit)}
}

func (f *OrderFilter) SetStatus(value string) error {
	status, err := parseOptional(value, domain.ParseOrderStatus)
	if err != nil {
		return filterError("status", err)
	}
	f.status = status
	f.page = 1
	return nil
}

func (f *OrderFilter) SetPaymentStatus(value string) error {
	status, err := parseOptional(value, domain.ParsePaymentStatus)
	if err != nil {
		return filterError("paymentStatus", err)
	}
	f.paymentStatus = status
	f.page = 1
	return nil
}

func (f *OrderFilter) SetSearch(value string) {
	f.search = strings.TrimSpace(value)
	f.page = 1
}

// SetPage moves to page p, clamped to at least 1. Predicates are left unchanged.
func (f *OrderFilter) SetPage(p int) { f.page = max(p, 1) }

func (f OrderFilter) Page() int                           { return f.page }
func (f OrderFilter) Limit() int                          { return f.limit }
func (f OrderFilter) Status() domain.OrderStatus          { return f.status }
func (f OrderFilter) PaymentStatus() domain.PaymentStatus { return f.paymentStatus }
func (f OrderFilter) Search() string                      { return f.search }

// Query returns the predicates sent to the order service.
func (f OrderFilter) Query() ports.ListQuery {
	return ports.ListQuery{
		Page:          f.page,
		Limit:         f.limit,
		Status:        string(f.status),
		PaymentStatus: string(f.paymentStatus),
		Search:        f.search,
	}
}

// Refine re-applies the payment status and search predicates to a loaded page. It only
// narrows what is displayed; server totals are not recomputed from it.
func (f OrderFilter) Refine(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.paymentStatus != "" && o.PaymentStatus != f.paymentStatus {
			continue
		}
		if !matchesOrder(o, f.search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// CancelledFilter composes predicates for the cancelled-orders table.
type CancelledFilter struct {
	page   int
	limit  int
	search string
}

func NewCancelledFilter(limit int) CancelledFilter {
	return CancelledFilter{page: 1, limit: normalizeLimit(limit)}
}

func (f *CancelledFilter) SetSearch(value string) {
	f.search = strings.TrimSpace(value)
	f.page = 1
}

func (f *CancelledFilter) SetPage(p int) { f.page = max(p, 1) }

func (f CancelledFilter) Page() int      { return f.page }
func (f CancelledFilter) Search() string { return f.search }

func (f CancelledFilter) Query() ports.ListQuery {
	return ports.ListQuery{Page: f.page, Limit: f.limit, Search: f.search}
}

func (f CancelledFilter) Refine(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if matchesOrder(o, f.search) {
			out = append(out, o)
		}
	}
	return out
}

// RefundFilter composes predicates for the refunds table.
type RefundFilter struct {
	page   int
	limit  int
	status domain.RefundStatus
	search string
}

func NewRefundFilter(limit int) RefundFilter {
	return RefundFilter{page: 1, limit: normalizeLimit(limit)}
}

func (f *RefundFilter) SetStatus(value string) error {
	status, err := parseOptional(value, domain.ParseRefundStatus)
	if err != nil {
		return filterError("status", err)
	}
	f.status = status
	f.page = 1
	return nil
}

func (f *RefundFilter) SetSearch(value string) {
	f.search = strings.TrimSpace(value)
	f.page = 1
}

func (f *RefundFilter) SetPage(p int) { f.page = max(p, 1) }

func (f RefundFilter) Page() int                   { return f.page }
func (f RefundFilter) Status() domain.RefundStatus { return f.status }
func (f RefundFilter) Search() string              { return f.search }

func (f RefundFilter) Query() ports.ListQuery {
	return ports.ListQuery{Page: f.page, Limit: f.limit, Status: string(f.status), Search: f.search}
}

func (f RefundFilter) Refine(refunds []domain.Refund) []domain.Refund {
	out := make([]domain.Refund, 0, len(refunds))
	for _, r := range refunds {
		if f.status != "" && r.Status != f.status {
			continue
		}
		if !containsFold(f.search, r.ID, r.OrderID, r.InvoiceNumber, r.RefundReason, r.PaymentMethod) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesOrder(o domain.Order, search string) bool {
	return containsFold(search,
		o.ID,
		o.DisplayInvoice(),
		o.TrackingNumber,
		o.Customer.Name,
		o.Customer.Email,
		o.Customer.Phone,
	)
}

// containsFold reports whether any field contains needle, ignoring case. An empty needle matches.
func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// parseOptional treats "" and "all" as no predicate.
func parseOptional[T ~string](value string, parse func(string) (T, error)) (T, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "all") {
		return "", nil
	}
	return parse(v)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return limit
}

func filterError(field string, err error) error {
	return &domain.ValidationError{
		Message:     "invalid filter",
		FieldErrors: map[string]string{field: err.Error()},
	}
}
