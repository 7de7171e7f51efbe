package ports

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
)

// OrderGateway exposes the upstream order and refund service to the application layer.
type OrderGateway interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, query ListQuery) (*OrderPage, error)
	ListCancelled(ctx context.Context, query ListQuery) (*OrderPage, error)
	ListRefunds(ctx context.Context, query ListQuery) (*RefundPage, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*domain.Order, error)
	Complete(ctx context.Context, id string) (*domain.Order, error)
	Cancel(ctx context.Context, id string, reason string) (*domain.Order, error)
	Refund(ctx context.Context, id string, req RefundRequest) (*RefundResult, error)
}

// ListQuery carries the predicates sent with a list request. Empty strings mean "all".
type ListQuery struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	Search        string
}

// Values encodes the query parameters. page, limit and status are always present.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("status", q.Status)
	if q.PaymentStatus != "" {
		v.Set("paymentStatus", q.PaymentStatus)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// CancelledValues encodes the query for the cancelled list, whose endpoint takes no
// status predicate.
func (q ListQuery) CancelledValues() url.Values {
	v := q.Values()
	v.Del("status")
	v.Del("paymentStatus")
	return v
}

// Pagination reports the server-side window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// OrderPage is one page of orders. Stats is nil when the server sent no aggregate.
type OrderPage struct {
	Orders     []domain.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
	Stats      *domain.Stats  `json:"stats,omitempty"`
}

// RefundPage is one page of refund records.
type RefundPage struct {
	Refunds    []domain.Refund         `json:"refunds"`
	Pagination Pagination              `json:"pagination"`
	Analytics  *domain.RefundAnalytics `json:"analytics,omitempty"`
}

// UpdateStatusRequest is the body of a status update.
type UpdateStatusRequest struct {
	Status         domain.OrderStatus `json:"status"`
	TrackingNumber string             `json:"trackingNumber,omitempty"`
}

// RefundRequest is the body of a refund submission. IdempotencyKey travels as a header.
type RefundRequest struct {
	Amount         money.Amount `json:"refundAmount"`
	Reason         string       `json:"refundReason"`
	IdempotencyKey string       `json:"-"`
}

// RefundResult is what the upstream confirms after a refund.
type RefundResult struct {
	Order  domain.Order
	Refund domain.Refund
}

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")
)
