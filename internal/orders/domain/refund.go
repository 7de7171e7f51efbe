package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
)

// Refundable reports whether the payment state allows refunds at all.
func (p PaymentStatus) Refundable() bool {
	return p == PaymentPaid || p == PaymentPartiallyRefunded
}

// RefundableAmount returns the part of the charged amount not yet returned to the customer.
func RefundableAmount(order Order) money.Amount {
	if !order.PaymentStatus.Refundable() {
		return money.Zero
	}
	return order.FinalAmount.Sub(order.RefundAmount).ClampZero()
}

// CanRefund reports whether a refund may be requested for the order.
func CanRefund(order Order) bool {
	return RefundableAmount(order).IsPositive()
}

// AwaitingRefund reports whether a cancelled order still owes the customer money.
func AwaitingRefund(order Order) bool {
	return order.Status == StatusCancelled && CanRefund(order)
}

// ValidateRefund checks a refund request against the order's refundable balance.
func ValidateRefund(order Order, amount money.Amount, reason string) error {
	if !amount.IsPositive() {
		return fieldError("refundAmount", "refund amount must be greater than zero")
	}
	if err := amount.CheckScale(); err != nil {
		return fieldError("refundAmount", "refund amount must have at most 2 decimal places")
	}
	if strings.TrimSpace(reason) == "" {
		return fieldError("refundReason", "refund reason is required")
	}

	refundable := RefundableAmount(order)
	if !refundable.IsPositive() {
		return &ValidationError{
			Message:     ErrNotRefundable.Error(),
			FieldErrors: map[string]string{"refundAmount": "no refundable balance for payment status " + string(order.PaymentStatus)},
		}
	}
	if amount.GreaterThan(refundable) {
		return fieldError("refundAmount", "refund amount "+amount.String()+" exceeds refundable balance "+refundable.String())
	}
	return nil
}

// RefundInput describes a refund the payment service has confirmed.
type RefundInput struct {
	RefundID      string
	Amount        money.Amount
	Reason        string
	PaymentMethod string
	Now           time.Time
}

// ApplyRefund records a confirmed refund on the order and returns the updated order with
// the new refund record. The order passed in is not modified.
func ApplyRefund(order Order, in RefundInput) (Order, Refund, error) {
	if err := ValidateRefund(order, in.Amount, in.Reason); err != nil {
		return Order{}, Refund{}, err
	}
	if strings.TrimSpace(in.RefundID) == "" {
		return Order{}, Refund{}, errors.New("refund id is required")
	}

	now := nowOr(in.Now)
	next := order
	next.RefundAmount = order.RefundAmount.Add(in.Amount)
	if next.RefundAmount.Equal(order.FinalAmount) {
		next.PaymentStatus = PaymentRefunded
	} else {
		next.PaymentStatus = PaymentPartiallyRefunded
	}
	next.UpdatedAt = now

	method := in.PaymentMethod
	if method == "" {
		method = order.PaymentMethod
	}

	refund := Refund{
		ID:            in.RefundID,
		OrderID:       order.ID,
		InvoiceNumber: order.DisplayInvoice(),
		RefundAmount:  in.Amount,
		RefundReason:  strings.TrimSpace(in.Reason),
		Status:        RefundProcessed,
		PaymentMethod: method,
		ProcessedAt:   &now,
		CreatedAt:     now,
	}

	return next, refund, nil
}

// SumRefunds totals refund records that were not failed or cancelled.
func SumRefunds(refunds []Refund) money.Amount {
	total := money.Zero
	for _, r := range refunds {
		if r.Status == RefundFailed || r.Status == RefundCancelled {
			continue
		}
		total = total.Add(r.RefundAmount)
	}
	return total
}
