package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidTransition is returned when a requested status change is not permitted.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrTerminalStatus is returned when an order in CANCELLED or COMPLETED is mutated.
	ErrTerminalStatus = errors.New("order is in a terminal status")
	// ErrNotRefundable is returned when an order has nothing left to refund.
	ErrNotRefundable = errors.New("order is not refundable")
)

// ValidationError reports input problems detected before any network call.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e == nil {
		return "invalid request"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "invalid request"
	}
	return msg
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{
		Message:     message,
		FieldErrors: map[string]string{field: message},
	}
}

// TransitionError represents a rejected status change.
type TransitionError struct {
	From   OrderStatus
	To     OrderStatus
	Reason string
	err    error
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	reason := e.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "transition not permitted"
	}
	return "order status transition from " + string(e.From) + " to " + string(e.To) + ": " + reason
}

// Unwrap exposes ErrInvalidTransition or ErrTerminalStatus.
func (e *TransitionError) Unwrap() error {
	if e.err == nil {
		return ErrInvalidTransition
	}
	return e.err
}

func transitionError(from, to OrderStatus, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason, err: ErrInvalidTransition}
}

func terminalError(from, to OrderStatus) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: "order is " + strings.ToLower(string(from)), err: ErrTerminalStatus}
}
