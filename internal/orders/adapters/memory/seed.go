package memory

import (
	"time"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
)

// DemoOrders returns a small order book covering every status, for running the console
// without an upstream service.
func DemoOrders(now time.Time) []domain.Order {
	type row struct {
		id      string
		status  domain.OrderStatus
		payment domain.PaymentStatus
		final   string
		name    string
	}
	rows := []row{
		{"65f1c2aa9be4d3c0f1a2b301", domain.StatusPending, domain.PaymentPending, "499.00", "Asha Verma"},
		{"65f1c2aa9be4d3c0f1a2b302", domain.StatusConfirmed, domain.PaymentPaid, "1250.50", "Imran Shaikh"},
		{"65f1c2aa9be4d3c0f1a2b303", domain.StatusProcessing, domain.PaymentPaid, "780.00", "Neha Joshi"},
		{"65f1c2aa9be4d3c0f1a2b304", domain.StatusShipped, domain.PaymentPaid, "2100.00", "Rahul Patil"},
		{"65f1c2aa9be4d3c0f1a2b305", domain.StatusDelivered, domain.PaymentPaid, "1000.00", "Kavya Nair"},
		{"65f1c2aa9be4d3c0f1a2b306", domain.StatusCompleted, domain.PaymentPaid, "640.00", "Sameer Khan"},
		{"65f1c2aa9be4d3c0f1a2b307", domain.StatusCancelled, domain.PaymentPaid, "999.99", "Pooja Desai"},
		{"65f1c2aa9be4d3c0f1a2b308", domain.StatusCancelled, domain.PaymentFailed, "350.00", "Vikram Rao"},
	}

	orders := make([]domain.Order, 0, len(rows))
	for i, r := range rows {
		created := now.Add(-time.Duration(len(rows)-i) * time.Hour)
		final := money.MustParse(r.final)
		o := domain.Order{
			ID:            r.id,
			Status:        r.status,
			PaymentStatus: r.payment,
			PaymentMethod: "UPI",
			FinalAmount:   final,
			TotalAmount:   final.Add(money.New(50)),
			Customer:      domain.Customer{Name: r.name},
			CreatedAt:     created,
			UpdatedAt:     created,
		}
		if domain.RequiresTracking(r.status) || r.status == domain.StatusCompleted {
			o.TrackingNumber = "TRK" + r.id[len(r.id)-4:]
		}
		if r.status == domain.StatusCancelled {
			o.CancellationReason = "customer request"
			o.CancelledBy = "admin"
			o.CancelledAt = &created
		}
		orders = append(orders, o)
	}
	return orders
}
