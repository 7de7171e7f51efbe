package domain_test

import (
	"testing"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
)

func TestCountStats(t *testing.T) {
	orders := []domain.Order{
		{Status: domain.StatusPending},
		{Status: domain.StatusPending},
		{Status: domain.StatusShipped},
		{Status: domain.StatusCancelled},
		{Status: domain.StatusCompleted},
	}

	got := domain.CountStats(orders)
	want := domain.Stats{Total: 5, Pending: 2, Shipped: 1, Cancelled: 1, Completed: 1}
	if got != want {
		t.Errorf("CountStats() = %+v, want %+v", got, want)
	}
}

func TestReconcileStats(t *testing.T) {
	page := domain.Stats{Total: 10, Pending: 4, Delivered: 6}

	tests := []struct {
		name        string
		server      *domain.Stats
		wantTotal   int
		wantSource  domain.StatsSource
		wantPartial bool
	}{
		{"larger server total wins", &domain.Stats{Total: 50, Pending: 20}, 50, domain.StatsSourceServer, false},
		{"missing server stats falls back to page", nil, 10, domain.StatsSourcePage, true},
		{"smaller server total loses", &domain.Stats{Total: 3}, 10, domain.StatsSourcePage, true},
		{"equal totals use page without partial badge", &domain.Stats{Total: 10}, 10, domain.StatsSourcePage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ReconcileStats(tt.server, page)
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Total, tt.wantTotal)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %s, want %s", got.Source, tt.wantSource)
			}
			if got.Partial != tt.wantPartial {
				t.Errorf("Partial = %v, want %v", got.Partial, tt.wantPartial)
			}
		})
	}
}

func TestReconcileRefundAnalytics(t *testing.T) {
	refunds := []domain.Refund{
		{RefundAmount: money.New(100), Status: domain.RefundProcessed},
		{RefundAmount: money.New(40), Status: domain.RefundFailed},
	}
	page := domain.CountRefundAnalytics(refunds)
	if page.TotalRefunds != 2 || page.Processed != 1 || page.Failed != 1 {
		t.Fatalf("unexpected page analytics: %+v", page)
	}
	if !page.TotalRefundAmount.Equal(money.New(100)) {
		t.Errorf("TotalRefundAmount = %s, want 100", page.TotalRefundAmount)
	}

	got := domain.ReconcileRefundAnalytics(nil, page)
	if got.Source != domain.StatsSourcePage || !got.Partial {
		t.Errorf("expected partial page analytics, got %+v", got)
	}

	server := &domain.RefundAnalytics{TotalRefunds: 35, TotalRefundAmount: money.New(9000)}
	got = domain.ReconcileRefundAnalytics(server, page)
	if got.Source != domain.StatsSourceServer || got.TotalRefunds != 35 {
		t.Errorf("expected server analytics, got %+v", got)
	}
}
