package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app/commands"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/metrics"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/telemetry"
)

// ErrBusy is returned when a mutation for the same order is still in flight.
var ErrBusy = errors.New("another change to this order is still in progress")

// BusyError names the mutation holding the order.
type BusyError struct {
	OrderID string
	Pending ports.MutationKind
}

func (e *BusyError) Error() string {
	return ErrBusy.Error() + " (" + string(e.Pending) + ")"
}

func (e *BusyError) Unwrap() error { return ErrBusy }

// Mutation describes an attempt for the audit journal.
type Mutation struct {
	OrderID  string
	Kind     ports.MutationKind
	Actor    string
	ToStatus string
	Amount   string
	Detail   string
}

// MutationFunc performs the validated upstream call while the order slot is held.
type MutationFunc func(ctx context.Context) (*commands.Result, error)

// Outcome is the confirmed state after a successful mutation.
type Outcome struct {
	Order         domain.Order
	Refund        *domain.Refund
	RefundPending bool
}

// Coordinator serialises mutations per order and refreshes derived views after success.
type Coordinator struct {
	mu      sync.Mutex
	pending map[string]ports.MutationKind

	gateway ports.OrderGateway
	cache   ports.QueryCache
	events  ports.EventPublisher
	audit   ports.AuditLog
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCoordinator(
	gateway ports.OrderGateway,
	cache ports.QueryCache,
	events ports.EventPublisher,
	audit ports.AuditLog,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Coordinator {
	return &Coordinator{
		pending: make(map[string]ports.MutationKind),
		gateway: gateway,
		cache:   cache,
		events:  events,
		audit:   audit,
		logger:  logger,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Pending reports the mutation currently holding the order, if any.
func (c *Coordinator) Pending(orderID string) (ports.MutationKind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kind, ok := c.pending[orderID]
	return kind, ok
}

func (c *Coordinator) acquire(orderID string, kind ports.MutationKind) *BusyError {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.pending[orderID]; ok {
		return &BusyError{OrderID: orderID, Pending: current}
	}
	c.pending[orderID] = kind
	return nil
}

func (c *Coordinator) release(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, orderID)
}

// Run executes fn unless another mutation holds the order. A failed fn invalidates
// nothing. After success the query cache is dropped, an invalidation event is published
// and the order is fetched again; the fetched order is returned.
func (c *Coordinator) Run(ctx context.Context, m Mutation, fn MutationFunc) (*Outcome, error) {
	if busy := c.acquire(m.OrderID, m.Kind); busy != nil {
		c.metrics.RecordBusy(ctx, string(m.Kind))
		telemetry.AddSpanEvent(trace.SpanFromContext(ctx), "mutation.busy",
			attribute.String("order.id", m.OrderID),
			attribute.String("pending", string(busy.Pending)),
		)
		c.journal(ctx, m, nil, ports.OutcomeBusy, busy)
		return nil, busy
	}
	defer c.release(m.OrderID)

	result, err := fn(ctx)
	if err != nil {
		c.journal(ctx, m, nil, commands.OutcomeOf(err), err)
		return nil, err
	}

	// The upstream has confirmed the change; a client that disconnects now must not
	// leave stale views behind.
	ctx = context.WithoutCancel(ctx)
	c.invalidate(ctx, m, result.After)

	fresh, err := c.gateway.GetOrder(ctx, m.OrderID)
	if err != nil {
		c.logger.WarnContext(ctx, "re-fetch after mutation failed, returning upstream response",
			"order_id", m.OrderID,
			"mutation", m.Kind,
			"error", err,
		)
		fresh = &result.After
	}

	c.journal(ctx, m, result, ports.OutcomeSucceeded, nil)

	return &Outcome{Order: *fresh, Refund: result.Refund, RefundPending: result.RefundPending}, nil
}

func (c *Coordinator) invalidate(ctx context.Context, m Mutation, after domain.Order) {
	defer telemetry.AddSpanEvent(trace.SpanFromContext(ctx), "views.invalidated",
		attribute.String("order.id", m.OrderID),
		attribute.String("order.status", string(after.Status)),
	)
	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "query cache invalidation failed",
			"order_id", m.OrderID,
			"error", err,
		)
	}
	event := ports.OrderChanged{
		OrderID:    m.OrderID,
		Kind:       m.Kind,
		Status:     string(after.Status),
		OccurredAt: c.now(),
	}
	if err := c.events.PublishOrderChanged(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "publishing invalidation event failed",
			"order_id", m.OrderID,
			"error", err,
		)
	}
}

func (c *Coordinator) journal(ctx context.Context, m Mutation, result *commands.Result, outcome ports.AuditOutcome, cause error) {
	entry := ports.AuditEntry{
		ID:        ulid.Make().String(),
		OrderID:   m.OrderID,
		Kind:      m.Kind,
		Outcome:   outcome,
		Actor:     m.Actor,
		ToStatus:  m.ToStatus,
		Amount:    m.Amount,
		Detail:    m.Detail,
		CreatedAt: c.now(),
	}
	if result != nil {
		entry.FromStatus = string(result.Before.Status)
		entry.ToStatus = string(result.After.Status)
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := c.audit.Record(ctx, entry); err != nil {
		c.logger.WarnContext(ctx, "recording audit entry failed",
			"order_id", m.OrderID,
			"mutation", m.Kind,
			"error", err,
		)
	}
}
