package domain_test

import (
	"errors"
	"testing"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
)

func TestRefundableAmount(t *testing.T) {
	tests := []struct {
		name    string
		payment domain.PaymentStatus
		final   string
		refund  string
		want    string
	}{
		{"paid untouched", domain.PaymentPaid, "1000", "0", "1000.00"},
		{"partially refunded", domain.PaymentPartiallyRefunded, "1000", "400", "600.00"},
		{"fully refunded", domain.PaymentRefunded, "1000", "1000", "0.00"},
		{"pending payment", domain.PaymentPending, "1000", "0", "0.00"},
		{"failed payment", domain.PaymentFailed, "1000", "0", "0.00"},
		{"over refunded clamps to zero", domain.PaymentPartiallyRefunded, "100", "150", "0.00"},
		{"paise precision", domain.PaymentPaid, "999.99", "0.01", "999.98"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := paidOrder(tt.final, tt.refund)
			order.PaymentStatus = tt.payment

			got := domain.RefundableAmount(order)
			if got.String() != tt.want {
				t.Errorf("RefundableAmount() = %s, want %s", got, tt.want)
			}
			if again := domain.RefundableAmount(order); !again.Equal(got) {
				t.Errorf("RefundableAmount() not idempotent: %s then %s", got, again)
			}
		})
	}
}

func TestValidateRefund(t *testing.T) {
	order := paidOrder("1000", "400")
	order.PaymentStatus = domain.PaymentPartiallyRefunded

	tests := []struct {
		name      string
		amount    string
		reason    string
		wantField string
	}{
		{"within balance", "600", "damaged", ""},
		{"zero amount", "0", "damaged", "refundAmount"},
		{"negative amount", "-50", "damaged", "refundAmount"},
		{"too precise", "10.005", "damaged", "refundAmount"},
		{"missing reason", "100", "  ", "refundReason"},
		{"exceeds refundable but not final", "700", "damaged", "refundAmount"},
		{"exceeds by one paisa", "600.01", "damaged", "refundAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateRefund(order, money.MustParse(tt.amount), tt.reason)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateRefund() unexpected error: %v", err)
				}
				return
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.FieldErrors[tt.wantField]; !ok {
				t.Errorf("expected field error on %s, got %v", tt.wantField, ve.FieldErrors)
			}
		})
	}
}

func TestValidateRefundRejectsUnpaidOrders(t *testing.T) {
	order := paidOrder("1000", "0")
	order.PaymentStatus = domain.PaymentPending

	err := domain.ValidateRefund(order, money.New(10), "goodwill")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Message != domain.ErrNotRefundable.Error() {
		t.Errorf("message = %q", ve.Message)
	}
}

func TestApplyRefundScenario(t *testing.T) {
	order := paidOrder("1000", "0")

	if got := domain.RefundableAmount(order); !got.Equal(money.New(1000)) {
		t.Fatalf("initial refundable = %s, want 1000", got)
	}

	updated, refund, err := domain.ApplyRefund(order, domain.RefundInput{
		RefundID: "refund-1",
		Amount:   money.New(400),
		Reason:   "damaged",
		Now:      fixedNow,
	})
	if err != nil {
		t.Fatalf("ApplyRefund() unexpected error: %v", err)
	}
	if !updated.RefundAmount.Equal(money.New(400)) {
		t.Errorf("refundAmount = %s, want 400", updated.RefundAmount)
	}
	if updated.PaymentStatus != domain.PaymentPartiallyRefunded {
		t.Errorf("paymentStatus = %s, want PARTIALLY_REFUNDED", updated.PaymentStatus)
	}
	if got := domain.RefundableAmount(updated); !got.Equal(money.New(600)) {
		t.Errorf("refundable = %s, want 600", got)
	}
	if refund.OrderID != order.ID || refund.Status != domain.RefundProcessed || !refund.RefundAmount.Equal(money.New(400)) {
		t.Errorf("unexpected refund record: %+v", refund)
	}

	if _, _, err := domain.ApplyRefund(updated, domain.RefundInput{RefundID: "refund-2", Amount: money.New(700), Reason: "damaged"}); err == nil {
		t.Fatal("expected 700 > 600 refundable to be rejected")
	}
	if !updated.RefundAmount.Equal(money.New(400)) {
		t.Error("rejected refund changed the order")
	}

	final, _, err := domain.ApplyRefund(updated, domain.RefundInput{RefundID: "refund-3", Amount: money.New(600), Reason: "damaged"})
	if err != nil {
		t.Fatalf("ApplyRefund() unexpected error: %v", err)
	}
	if final.PaymentStatus != domain.PaymentRefunded {
		t.Errorf("paymentStatus = %s, want REFUNDED", final.PaymentStatus)
	}
	if err := final.Validate(); err != nil {
		t.Errorf("order invariants broken after full refund: %v", err)
	}
}

func TestApplyRefundNeverExceedsFinalAmount(t *testing.T) {
	order := paidOrder("250.75", "0")
	amounts := []string{"100.25", "0.50", "150", "0.01", "0.01"}

	for _, a := range amounts {
		next, _, err := domain.ApplyRefund(order, domain.RefundInput{RefundID: "r-" + a, Amount: money.MustParse(a), Reason: "split"})
		if err != nil {
			continue
		}
		order = next
		if order.RefundAmount.GreaterThan(order.FinalAmount) || order.RefundAmount.IsNegative() {
			t.Fatalf("refundAmount %s out of bounds for final %s", order.RefundAmount, order.FinalAmount)
		}
	}

	if !order.RefundAmount.Equal(order.FinalAmount) {
		t.Errorf("refundAmount = %s, want %s", order.RefundAmount, order.FinalAmount)
	}
	if order.PaymentStatus != domain.PaymentRefunded {
		t.Errorf("paymentStatus = %s, want REFUNDED", order.PaymentStatus)
	}
}

func TestAwaitingRefund(t *testing.T) {
	cancelled := paidOrder("500", "0")
	cancelled.Status = domain.StatusCancelled
	if !domain.AwaitingRefund(cancelled) {
		t.Error("cancelled paid order should be refund pending")
	}

	cancelled.PaymentStatus = domain.PaymentRefunded
	cancelled.RefundAmount = money.New(500)
	if domain.AwaitingRefund(cancelled) {
		t.Error("fully refunded order should not be refund pending")
	}

	if domain.AwaitingRefund(paidOrder("500", "0")) {
		t.Error("active order should not be refund pending")
	}
}

func TestSumRefunds(t *testing.T) {
	refunds := []domain.Refund{
		{RefundAmount: money.New(100), Status: domain.RefundProcessed},
		{RefundAmount: money.New(50), Status: domain.RefundPending},
		{RefundAmount: money.New(999), Status: domain.RefundFailed},
		{RefundAmount: money.New(1), Status: domain.RefundCancelled},
	}
	if got := domain.SumRefunds(refunds); !got.Equal(money.New(150)) {
		t.Errorf("SumRefunds() = %s, want 150", got)
	}
}
