package app

import (
	"context"
	"log/slog"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app/commands"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app/queries"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/metrics"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

// Dependencies are the adapters the service is wired with.
type Dependencies struct {
	Gateway     ports.OrderGateway
	Cache       ports.QueryCache
	Events      ports.EventPublisher
	Audit       ports.AuditLog
	Idempotency ports.IdempotencyStore
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	PageSize    int
}

// Service bundles use cases for handling orders via the API.
type Service struct {
	coordinator *Coordinator
	audit       ports.AuditLog
	idemStore   ports.IdempotencyStore
	pageSize    int

	updateStatusHandler commands.CommandHandler[commands.UpdateStatusCommand]
	completeHandler     commands.CommandHandler[commands.CompleteOrderCommand]
	cancelHandler       commands.CommandHandler[commands.CancelOrderCommand]
	refundHandler       commands.CommandHandler[commands.ProcessRefundCommand]

	getOrderHandler      *queries.GetOrderQueryHandler
	listOrdersHandler    *queries.ListOrdersQueryHandler
	listCancelledHandler *queries.ListCancelledQueryHandler
	listRefundsHandler   *queries.ListRefundsQueryHandler
}

// NewService wires required dependencies.
func NewService(deps Dependencies) *Service {
	logger, m := deps.Logger, deps.Metrics
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = queries.DefaultPageSize
	}

	return &Service{
		coordinator: NewCoordinator(deps.Gateway, deps.Cache, deps.Events, deps.Audit, logger, m),
		audit:       deps.Audit,
		idemStore:   deps.Idempotency,
		pageSize:    pageSize,

		updateStatusHandler: commands.NewObservableCommandHandler[commands.UpdateStatusCommand](
			commands.NewUpdateStatusCommandHandler(deps.Gateway), logger, m),
		completeHandler: commands.NewObservableCommandHandler[commands.CompleteOrderCommand](
			commands.NewCompleteOrderCommandHandler(deps.Gateway), logger, m),
		cancelHandler: commands.NewObservableCommandHandler[commands.CancelOrderCommand](
			commands.NewCancelOrderCommandHandler(deps.Gateway), logger, m),
		refundHandler: commands.NewObservableCommandHandler[commands.ProcessRefundCommand](
			commands.NewProcessRefundCommandHandler(deps.Gateway), logger, m),

		getOrderHandler:      queries.NewGetOrderQueryHandler(deps.Gateway),
		listOrdersHandler:    queries.NewListOrdersQueryHandler(deps.Gateway, deps.Cache, logger, m),
		listCancelledHandler: queries.NewListCancelledQueryHandler(deps.Gateway, deps.Cache, logger),
		listRefundsHandler:   queries.NewListRefundsQueryHandler(deps.Gateway, deps.Cache, logger, m),
	}
}

// PageSize is the list window every filter is created with.
func (s *Service) PageSize() int { return s.pageSize }

// UpdateStatusInput captures payload for a status update.
type UpdateStatusInput struct {
	OrderID        string `json:"-"`
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
}

// CancelOrderInput captures payload for a cancellation.
type CancelOrderInput struct {
	OrderID string `json:"-"`
	Reason  string `json:"cancellationReason"`
}

// RefundInput captures payload for a refund submission.
type RefundInput struct {
	OrderID        string       `json:"-"`
	Amount         money.Amount `json:"refundAmount"`
	Reason         string       `json:"refundReason"`
	IdempotencyKey string       `json:"-"`
}

// UpdateStatus moves an order forward in its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*Outcome, error) {
	cmd := commands.UpdateStatusCommand{
		OrderID:        input.OrderID,
		Status:         input.Status,
		TrackingNumber: input.TrackingNumber,
	}
	m := Mutation{OrderID: input.OrderID, Kind: cmd.Kind(), Actor: session.Actor(ctx), ToStatus: input.Status}
	return s.coordinator.Run(ctx, m, func(ctx context.Context) (*commands.Result, error) {
		return s.updateStatusHandler.Handle(ctx, cmd)
	})
}

// CompleteOrder closes a delivered order.
func (s *Service) CompleteOrder(ctx context.Context, orderID string) (*Outcome, error) {
	cmd := commands.CompleteOrderCommand{OrderID: orderID}
	m := Mutation{OrderID: orderID, Kind: cmd.Kind(), Actor: session.Actor(ctx)}
	return s.coordinator.Run(ctx, m, func(ctx context.Context) (*commands.Result, error) {
		return s.completeHandler.Handle(ctx, cmd)
	})
}

// CancelOrder cancels a non-terminal order on behalf of the acting staff member.
func (s *Service) CancelOrder(ctx context.Context, input CancelOrderInput) (*Outcome, error) {
	cmd := commands.CancelOrderCommand{
		OrderID: input.OrderID,
		Reason:  input.Reason,
		Actor:   session.Actor(ctx),
	}
	m := Mutation{OrderID: input.OrderID, Kind: cmd.Kind(), Actor: cmd.Actor, Detail: input.Reason}
	return s.coordinator.Run(ctx, m, func(ctx context.Context) (*commands.Result, error) {
		return s.cancelHandler.Handle(ctx, cmd)
	})
}

// ProcessRefund requests a refund against the order's refundable balance.
func (s *Service) ProcessRefund(ctx context.Context, input RefundInput) (*Outcome, error) {
	cmd := commands.ProcessRefundCommand{
		OrderID:        input.OrderID,
		Amount:         input.Amount,
		Reason:         input.Reason,
		IdempotencyKey: input.IdempotencyKey,
	}
	m := Mutation{
		OrderID: input.OrderID,
		Kind:    cmd.Kind(),
		Actor:   session.Actor(ctx),
		Amount:  input.Amount.String(),
		Detail:  input.Reason,
	}
	return s.coordinator.Run(ctx, m, func(ctx context.Context) (*commands.Result, error) {
		return s.refundHandler.Handle(ctx, cmd)
	})
}

// GetOrder retrieves an order with the actions available for it.
func (s *Service) GetOrder(ctx context.Context, id string) (*queries.OrderDetail, error) {
	detail, err := s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
	if err != nil {
		return nil, err
	}
	_, detail.Busy = s.coordinator.Pending(id)
	return detail, nil
}

// ListOrders returns one page of orders and the reconciled aggregate.
func (s *Service) ListOrders(ctx context.Context, filter queries.OrderFilter) (*queries.ListOrdersResult, error) {
	return s.listOrdersHandler.Handle(ctx, filter)
}

// ListCancelled returns one page of cancelled orders.
func (s *Service) ListCancelled(ctx context.Context, filter queries.CancelledFilter) (*queries.ListCancelledResult, error) {
	return s.listCancelledHandler.Handle(ctx, filter)
}

// ListRefunds returns one page of refund records and the reconciled analytics.
func (s *Service) ListRefunds(ctx context.Context, filter queries.RefundFilter) (*queries.ListRefundsResult, error) {
	return s.listRefundsHandler.Handle(ctx, filter)
}

// AuditTrail returns the journaled mutation attempts for an order, newest first.
func (s *Service) AuditTrail(ctx context.Context, orderID string, limit int) ([]ports.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.audit.ListByOrder(ctx, orderID, limit)
}

// ReserveIdempotencyKey claims key for a refund submission. When the key is already
// held the existing record is returned and claimed is false.
func (s *Service) ReserveIdempotencyKey(ctx context.Context, key string, claim ports.StoredResponse) (*ports.StoredResponse, bool, error) {
	return s.idemStore.Reserve(ctx, key, claim)
}

// CompleteIdempotencyKey records the response to replay for a claimed key.
func (s *Service) CompleteIdempotencyKey(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Complete(ctx, key, response)
}

// ReleaseIdempotencyKey frees a claimed key after a failed refund.
func (s *Service) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return s.idemStore.Release(ctx, key)
}
