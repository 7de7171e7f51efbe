package queries_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app/queries"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
)

func TestOrderFilterResetsPage(t *testing.T) {
	f := queries.NewOrderFilter(0)
	require.Equal(t, 1, f.Page())
	require.Equal(t, queries.DefaultPageSize, f.Limit())

	f.SetPage(4)
	require.NoError(t, f.SetStatus("shipped"))
	require.Equal(t, 1, f.Page())
	require.Equal(t, domain.StatusShipped, f.Status())

	f.SetPage(3)
	require.NoError(t, f.SetPaymentStatus("PAID"))
	require.Equal(t, 1, f.Page())

	f.SetPage(2)
	f.SetSearch("  ravi ")
	require.Equal(t, 1, f.Page())
	require.Equal(t, "ravi", f.Search())

	f.SetPage(-5)
	require.Equal(t, 1, f.Page())
}

func TestOrderFilterRejectsUnknownStatus(t *testing.T) {
	f := queries.NewOrderFilter(10)
	err := f.SetStatus("LOST")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.FieldErrors, "status")

	require.NoError(t, f.SetStatus("all"))
	require.Empty(t, f.Status())
}

func TestOrderFilterQueryValues(t *testing.T) {
	f := queries.NewOrderFilter(10)
	values := f.Query().Values()
	require.Equal(t, "1", values.Get("page"))
	require.Equal(t, "10", values.Get("limit"))
	require.True(t, values.Has("status"), "status is always sent")
	require.False(t, values.Has("paymentStatus"))
	require.False(t, values.Has("search"))

	require.NoError(t, f.SetPaymentStatus("partially_refunded"))
	f.SetSearch("TRK")
	f.SetPage(2)
	values = f.Query().Values()
	require.Equal(t, "PARTIALLY_REFUNDED", values.Get("paymentStatus"))
	require.Equal(t, "TRK", values.Get("search"))
	require.Equal(t, "2", values.Get("page"))
}

func TestOrderFilterRefine(t *testing.T) {
	orders := []domain.Order{
		{ID: "aaaa1111", PaymentStatus: domain.PaymentPaid, Customer: domain.Customer{Name: "Ravi Kumar"}},
		{ID: "bbbb2222", PaymentStatus: domain.PaymentPending, Customer: domain.Customer{Name: "Ravi Shah"}},
		{ID: "cccc3333", PaymentStatus: domain.PaymentPaid, TrackingNumber: "TRK123"},
	}

	f := queries.NewOrderFilter(10)
	require.Len(t, f.Refine(orders), 3)

	require.NoError(t, f.SetPaymentStatus("PAID"))
	require.Len(t, f.Refine(orders), 2)

	f.SetSearch("ravi")
	got := f.Refine(orders)
	require.Len(t, got, 1)
	require.Equal(t, "aaaa1111", got[0].ID)

	require.NoError(t, f.SetPaymentStatus(""))
	f.SetSearch("#CCCC3333")
	require.Len(t, f.Refine(orders), 1, "search matches the display invoice")
}

func TestRefundFilter(t *testing.T) {
	refunds := []domain.Refund{
		{ID: "r1", OrderID: "o1", Status: domain.RefundProcessed, RefundReason: "damaged"},
		{ID: "r2", OrderID: "o2", Status: domain.RefundFailed, RefundReason: "late"},
	}

	f := queries.NewRefundFilter(5)
	f.SetPage(3)
	require.NoError(t, f.SetStatus("failed"))
	require.Equal(t, 1, f.Page())
	require.Equal(t, "FAILED", f.Query().Values().Get("status"))
	require.Len(t, f.Refine(refunds), 1)

	require.NoError(t, f.SetStatus(""))
	f.SetSearch("DAMAGED")
	require.Len(t, f.Refine(refunds), 1)

	require.Error(t, f.SetStatus("SOMETIMES"))
}

func TestCancelledFilter(t *testing.T) {
	f := queries.NewCancelledFilter(10)
	f.SetPage(2)
	f.SetSearch("x")
	require.Equal(t, 1, f.Page())

	values := f.Query().Values()
	require.Equal(t, "x", values.Get("search"))
	require.Empty(t, values.Get("status"))
}
