//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/samadhanbodkhe/gudworld-admin/internal/database/dbtest"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/postgres"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

func TestAuditLogRecordAndList(t *testing.T) {
	log := postgres.NewAuditLog(dbtest.NewPool(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []ports.AuditEntry{
		{ID: ulid.Make().String(), OrderID: "order-1", Kind: ports.MutationRefund, Outcome: ports.OutcomeSucceeded, Actor: "ops", FromStatus: "DELIVERED", ToStatus: "DELIVERED", Amount: "400.00", Detail: "damaged", CreatedAt: base},
		{ID: ulid.Make().String(), OrderID: "order-1", Kind: ports.MutationRefund, Outcome: ports.OutcomeRejected, Error: "exceeds refundable balance", CreatedAt: base.Add(time.Minute)},
		{ID: ulid.Make().String(), OrderID: "order-2", Kind: ports.MutationCancel, Outcome: ports.OutcomeBusy, CreatedAt: base},
	}
	for _, e := range entries {
		if err := log.Record(ctx, e); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := log.ListByOrder(ctx, "order-1", 10)
	if err != nil {
		t.Fatalf("ListByOrder() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Outcome != ports.OutcomeRejected || got[0].Amount != "" {
		t.Errorf("expected newest rejected entry without amount first, got %+v", got[0])
	}
	if got[1].Amount != "400.00" || got[1].Actor != "ops" || got[1].FromStatus != "DELIVERED" {
		t.Errorf("unexpected entry: %+v", got[1])
	}

	limited, err := log.ListByOrder(ctx, "order-1", 1)
	if err != nil {
		t.Fatalf("ListByOrder() error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}

	none, err := log.ListByOrder(ctx, "order-9", 10)
	if err != nil {
		t.Fatalf("ListByOrder() error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no entries, got %d", len(none))
	}
}
