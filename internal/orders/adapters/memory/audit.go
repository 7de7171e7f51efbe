package memory

import (
	"context"
	"sync"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// AuditLog keeps the mutation journal in memory.
type AuditLog struct {
	mu      sync.RWMutex
	entries map[string][]ports.AuditEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{entries: make(map[string][]ports.AuditEntry)}
}

func (a *AuditLog) Record(_ context.Context, entry ports.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[entry.OrderID] = append(a.entries[entry.OrderID], entry)
	return nil
}

// ListByOrder returns the newest entries first.
func (a *AuditLog) ListByOrder(_ context.Context, orderID string, limit int) ([]ports.AuditEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entries := a.entries[orderID]
	out := make([]ports.AuditEntry, 0, min(len(entries), max(limit, 0)))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
