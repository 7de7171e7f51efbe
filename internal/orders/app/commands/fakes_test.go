package commands_test

import (
	"context"
	"sync"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// fakeGateway serves a single order and counts mutating calls.
type fakeGateway struct {
	mu    sync.Mutex
	order domain.Order
	calls []string

	getErr    error
	mutateErr error
	lastKey   string
	lastReq   ports.UpdateStatusRequest
}

func newFakeGateway(order domain.Order) *fakeGateway {
	return &fakeGateway{order: order}
}

func (f *fakeGateway) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if id != f.order.ID {
		return nil, ports.ErrNotFound
	}
	o := f.order
	return &o, nil
}

func (f *fakeGateway) ListOrders(context.Context, ports.ListQuery) (*ports.OrderPage, error) {
	return &ports.OrderPage{}, nil
}

func (f *fakeGateway) ListCancelled(context.Context, ports.ListQuery) (*ports.OrderPage, error) {
	return &ports.OrderPage{}, nil
}

func (f *fakeGateway) ListRefunds(context.Context, ports.ListQuery) (*ports.RefundPage, error) {
	return &ports.RefundPage{}, nil
}

func (f *fakeGateway) UpdateStatus(_ context.Context, _ string, req ports.UpdateStatusRequest) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update_status")
	f.lastReq = req
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.order.Status = req.Status
	f.order.TrackingNumber = req.TrackingNumber
	o := f.order
	return &o, nil
}

func (f *fakeGateway) Complete(context.Context, string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "complete")
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.order.Status = domain.StatusCompleted
	o := f.order
	return &o, nil
}

func (f *fakeGateway) Cancel(_ context.Context, _ string, reason string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "cancel")
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.order.Status = domain.StatusCancelled
	f.order.CancellationReason = reason
	o := f.order
	return &o, nil
}

func (f *fakeGateway) Refund(_ context.Context, _ string, req ports.RefundRequest) (*ports.RefundResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "refund")
	f.lastKey = req.IdempotencyKey
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	next, refund, err := domain.ApplyRefund(f.order, domain.RefundInput{
		RefundID: "refund-1",
		Amount:   req.Amount,
		Reason:   req.Reason,
	})
	if err != nil {
		return nil, err
	}
	f.order = next
	return &ports.RefundResult{Order: next, Refund: refund}, nil
}

func order(status domain.OrderStatus, payment domain.PaymentStatus, final, refunded string) domain.Order {
	return domain.Order{
		ID:            "order-1",
		Status:        status,
		PaymentStatus: payment,
		TotalAmount:   money.MustParse(final),
		FinalAmount:   money.MustParse(final),
		RefundAmount:  money.MustParse(refunded),
	}
}
