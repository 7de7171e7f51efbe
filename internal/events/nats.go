// Package events broadcasts order invalidation events between console instances.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "admin.orders.changed"

// Connect dials NATS and keeps reconnecting for the life of the process.
func Connect(url, clientName string, logger *slog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return conn, nil
}

// Publisher sends OrderChanged events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

// Subject is the subject events are published to.
func (p *Publisher) Subject() string { return p.subject }

func (p *Publisher) PublishOrderChanged(ctx context.Context, event ports.OrderChanged) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order changed event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Order-Id", event.OrderID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish order changed event: %w", err)
	}
	return nil
}

// Handler reacts to an invalidation event published by any instance.
type Handler func(ctx context.Context, event ports.OrderChanged)

// Subscribe delivers every event on subject to handle. Undecodable messages are logged and dropped.
func Subscribe(conn *nats.Conn, subject string, logger *slog.Logger, handle Handler) (*nats.Subscription, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		ctx := context.Background()
		if msg.Header != nil {
			ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))
		}

		var event ports.OrderChanged
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.WarnContext(ctx, "dropping undecodable order event", "subject", msg.Subject, "error", err)
			return
		}
		handle(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return sub, nil
}

// Checker reports whether the NATS connection is usable, for readiness probes.
type Checker struct {
	conn *nats.Conn
}

func NewChecker(conn *nats.Conn) *Checker {
	return &Checker{conn: conn}
}

func (c *Checker) Name() string { return "nats" }

func (c *Checker) Check(context.Context) error {
	if status := c.conn.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats connection is %s", status)
	}
	return nil
}
