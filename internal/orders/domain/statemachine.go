package domain

import (
	"strings"
	"time"
)

// TransitionContext carries the inputs a status update may need.
type TransitionContext struct {
	TrackingNumber string
	Now            time.Time
}

// RequiresTracking reports whether entering s needs a tracking number.
func RequiresTracking(s OrderStatus) bool {
	return s == StatusShipped || s == StatusDelivered
}

// Transition applies a status update and returns the resulting order. The input is not
// modified. Statuses move forward only; CANCELLED and COMPLETED have dedicated paths.
func Transition(order Order, target OrderStatus, tc TransitionContext) (Order, error) {
	if err := CheckTransition(order, target, tc.TrackingNumber); err != nil {
		return Order{}, err
	}

	now := nowOr(tc.Now)
	next := order
	next.Status = target
	next.UpdatedAt = now

	if RequiresTracking(target) {
		next.TrackingNumber = strings.TrimSpace(tc.TrackingNumber)
	}
	if target == StatusConfirmed && next.ConfirmedAt == nil {
		next.ConfirmedAt = &now
	}

	return next, nil
}

// CheckTransition validates a status update without applying it.
func CheckTransition(order Order, target OrderStatus, trackingNumber string) error {
	if err := checkTarget(order, target); err != nil {
		return err
	}
	if RequiresTracking(target) && strings.TrimSpace(trackingNumber) == "" {
		return fieldError("trackingNumber", "tracking number is required for "+strings.ToLower(string(target))+" orders")
	}
	return nil
}

func checkTarget(order Order, target OrderStatus) error {
	if !target.Valid() {
		return fieldError("status", "unknown status "+string(target))
	}
	if order.Status.IsTerminal() {
		return terminalError(order.Status, target)
	}

	switch target {
	case StatusCancelled:
		return transitionError(order.Status, target, "use cancel to cancel an order")
	case StatusCompleted:
		return transitionError(order.Status, target, "use complete to complete a delivered order")
	}

	from, to := order.Status.Ordinal(), target.Ordinal()
	if to < from {
		return transitionError(order.Status, target, "status cannot move backwards")
	}
	if to == from && !RequiresTracking(target) {
		return transitionError(order.Status, target, "order is already "+strings.ToLower(string(target)))
	}
	return nil
}

// AllowedTargets lists the statuses a status update may move the order to.
func AllowedTargets(order Order) []OrderStatus {
	var targets []OrderStatus
	for _, s := range Statuses {
		if checkTarget(order, s) == nil {
			targets = append(targets, s)
		}
	}
	return targets
}

// Complete marks a delivered order as completed.
func Complete(order Order, now time.Time) (Order, error) {
	if err := CheckComplete(order); err != nil {
		return Order{}, err
	}
	now = nowOr(now)
	next := order
	next.Status = StatusCompleted
	next.CompletedAt = &now
	next.UpdatedAt = now
	return next, nil
}

// CheckComplete validates a completion without applying it.
func CheckComplete(order Order) error {
	if order.Status.IsTerminal() {
		return terminalError(order.Status, StatusCompleted)
	}
	if order.Status != StatusDelivered {
		return transitionError(order.Status, StatusCompleted, "only delivered orders can be completed")
	}
	return nil
}

// CancelOutcome describes follow-ups a cancellation leaves behind.
type CancelOutcome struct {
	// RefundPending is set when the cancelled order was paid. The refund still needs an
	// explicit refund request.
	RefundPending bool
}

// Cancel moves a non-terminal order to CANCELLED.
func Cancel(order Order, reason, actor string, now time.Time) (Order, CancelOutcome, error) {
	if err := CheckCancel(order, reason); err != nil {
		return Order{}, CancelOutcome{}, err
	}
	now = nowOr(now)
	next := order
	next.Status = StatusCancelled
	next.CancellationReason = strings.TrimSpace(reason)
	next.CancelledAt = &now
	next.CancelledBy = strings.TrimSpace(actor)
	next.UpdatedAt = now

	return next, CancelOutcome{RefundPending: order.PaymentStatus == PaymentPaid}, nil
}

// CheckCancel validates a cancellation without applying it.
func CheckCancel(order Order, reason string) error {
	if order.Status.IsTerminal() {
		return terminalError(order.Status, StatusCancelled)
	}
	if strings.TrimSpace(reason) == "" {
		return fieldError("cancellationReason", "cancellation reason is required")
	}
	return nil
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
