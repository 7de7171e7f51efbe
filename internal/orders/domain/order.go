package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
)

// OrderStatus captures the fulfillment lifecycle of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Statuses lists every order status in lifecycle order. CANCELLED sits outside the ordinal
// chain and is listed last.
var Statuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

var statusOrdinal = map[OrderStatus]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
	StatusCompleted:  5,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusOrdinal[s]
	return ok || s == StatusCancelled
}

// Ordinal returns the position of s in the forward chain, or -1 for CANCELLED and unknown values.
func (s OrderStatus) Ordinal() int {
	if ord, ok := statusOrdinal[s]; ok {
		return ord
	}
	return -1
}

// IsTerminal reports whether no further status update is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ParseOrderStatus normalizes user input such as "shipped" into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", errors.New("unknown order status: " + value)
	}
	return status, nil
}

// PaymentStatus captures the payment state of an order.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentPaid              PaymentStatus = "PAID"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	default:
		return false
	}
}

// ParsePaymentStatus normalizes user input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", errors.New("unknown payment status: " + value)
	}
	return status, nil
}

// Customer holds the purchaser details shown in the order list.
type Customer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Order is a customer purchase as reported by the order service.
type Order struct {
	ID                 string        `json:"_id"`
	InvoiceNumber      string        `json:"invoiceNumber,omitempty"`
	Status             OrderStatus   `json:"status"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
	PaymentMethod      string        `json:"paymentMethod,omitempty"`
	FinalAmount        money.Amount  `json:"finalAmount"`
	TotalAmount        money.Amount  `json:"totalAmount"`
	RefundAmount       money.Amount  `json:"refundAmount"`
	TrackingNumber     string        `json:"trackingNumber,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelledAt,omitempty"`
	CancelledBy        string        `json:"cancelledBy,omitempty"`
	Customer           Customer      `json:"customer"`
	CreatedAt          time.Time     `json:"createdAt"`
	ConfirmedAt        *time.Time    `json:"confirmedAt,omitempty"`
	CompletedAt        *time.Time    `json:"completedAt,omitempty"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

const shortIDLength = 8

// DisplayInvoice returns the invoice number, falling back to a short form of the id.
func (o Order) DisplayInvoice() string {
	if invoice := strings.TrimSpace(o.InvoiceNumber); invoice != "" {
		return invoice
	}
	id := strings.TrimSpace(o.ID)
	if len(id) > shortIDLength {
		id = id[len(id)-shortIDLength:]
	}
	return "#" + strings.ToUpper(id)
}

// IsTerminal indicates whether the order is in a terminal state.
func (o Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// Validate checks the amount invariants of the order.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id is required")
	}
	if !o.Status.Valid() {
		return errors.New("order status is invalid")
	}
	if !o.PaymentStatus.Valid() {
		return errors.New("payment status is invalid")
	}
	if o.FinalAmount.IsNegative() {
		return errors.New("finalAmount must not be negative")
	}
	if o.FinalAmount.GreaterThan(o.TotalAmount) {
		return errors.New("finalAmount must not exceed totalAmount")
	}
	if o.RefundAmount.IsNegative() {
		return errors.New("refundAmount must not be negative")
	}
	if o.RefundAmount.GreaterThan(o.FinalAmount) {
		return errors.New("refundAmount must not exceed finalAmount")
	}
	return nil
}

// RefundStatus captures the processing state of a refund record.
type RefundStatus string

const (
	RefundPending   RefundStatus = "PENDING"
	RefundProcessed RefundStatus = "PROCESSED"
	RefundFailed    RefundStatus = "FAILED"
	RefundCancelled RefundStatus = "CANCELLED"
)

// Valid reports whether r is a known refund status.
func (r RefundStatus) Valid() bool {
	switch r {
	case RefundPending, RefundProcessed, RefundFailed, RefundCancelled:
		return true
	default:
		return false
	}
}

// ParseRefundStatus normalizes user input into a RefundStatus.
func ParseRefundStatus(value string) (RefundStatus, error) {
	status := RefundStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", errors.New("unknown refund status: " + value)
	}
	return status, nil
}

// Refund is a monetary reversal recorded against exactly one order.
type Refund struct {
	ID            string       `json:"_id"`
	OrderID       string       `json:"orderId"`
	InvoiceNumber string       `json:"invoiceNumber,omitempty"`
	RefundAmount  money.Amount `json:"refundAmount"`
	RefundReason  string       `json:"refundReason"`
	Status        RefundStatus `json:"status"`
	PaymentMethod string       `json:"paymentMethod,omitempty"`
	ProcessedAt   *time.Time   `json:"processedAt,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}
