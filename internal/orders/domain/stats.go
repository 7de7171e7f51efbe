package domain

import "github.com/samadhanbodkhe/gudworld-admin/internal/money"

// Stats counts orders per status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// StatsSource names where a displayed aggregate came from.
type StatsSource string

const (
	StatsSourceServer StatsSource = "server"
	StatsSourcePage   StatsSource = "page"
)

// ReconciledStats is the aggregate the console displays.
type ReconciledStats struct {
	Stats
	Source StatsSource `json:"source"`
	// Partial is set when the counts only cover the loaded page.
	Partial bool `json:"partial"`
}

// CountStats counts the statuses of the given orders.
func CountStats(orders []Order) Stats {
	var s Stats
	for _, o := range orders {
		s.Total++
		switch o.Status {
		case StatusPending:
			s.Pending++
		case StatusConfirmed:
			s.Confirmed++
		case StatusProcessing:
			s.Processing++
		case StatusShipped:
			s.Shipped++
		case StatusDelivered:
			s.Delivered++
		case StatusCompleted:
			s.Completed++
		case StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// ReconcileStats picks the server aggregate when its total is larger than the page
// count, otherwise the page count, marked partial unless the server agrees on the
// total. The larger-total rule is a heuristic: a server aggregate scoped differently
// from the page can still win.
func ReconcileStats(server *Stats, page Stats) ReconciledStats {
	if server != nil && server.Total > page.Total {
		return ReconciledStats{Stats: *server, Source: StatsSourceServer}
	}
	return ReconciledStats{
		Stats:   page,
		Source:  StatsSourcePage,
		Partial: server == nil || server.Total != page.Total,
	}
}

// RefundAnalytics aggregates refund records.
type RefundAnalytics struct {
	TotalRefunds      int          `json:"totalRefunds"`
	TotalRefundAmount money.Amount `json:"totalRefundAmount"`
	Pending           int          `json:"pending"`
	Processed         int          `json:"processed"`
	Failed            int          `json:"failed"`
	Cancelled         int          `json:"cancelled"`
}

// ReconciledRefundAnalytics is the refund aggregate the console displays.
type ReconciledRefundAnalytics struct {
	RefundAnalytics
	Source  StatsSource `json:"source"`
	Partial bool        `json:"partial"`
}

// CountRefundAnalytics aggregates the given refund records. Failed and cancelled refunds
// are counted but do not contribute to the refunded amount.
func CountRefundAnalytics(refunds []Refund) RefundAnalytics {
	a := RefundAnalytics{TotalRefundAmount: SumRefunds(refunds)}
	for _, r := range refunds {
		a.TotalRefunds++
		switch r.Status {
		case RefundPending:
			a.Pending++
		case RefundProcessed:
			a.Processed++
		case RefundFailed:
			a.Failed++
		case RefundCancelled:
			a.Cancelled++
		}
	}
	return a
}

// ReconcileRefundAnalytics applies the ReconcileStats policy to refund aggregates.
func ReconcileRefundAnalytics(server *RefundAnalytics, page RefundAnalytics) ReconciledRefundAnalytics {
	if server != nil && server.TotalRefunds > page.TotalRefunds {
		return ReconciledRefundAnalytics{RefundAnalytics: *server, Source: StatsSourceServer}
	}
	return ReconciledRefundAnalytics{
		RefundAnalytics: page,
		Source:          StatsSourcePage,
		Partial:         server == nil || server.TotalRefunds != page.TotalRefunds,
	}
}
