package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// AuditLog persists mutation attempts in the mutation_audit table.
type AuditLog struct {
	pool *pgxpool.Pool
}

func NewAuditLog(pool *pgxpool.Pool) *AuditLog {
	return &AuditLog{pool: pool}
}

func (a *AuditLog) Record(ctx context.Context, entry ports.AuditEntry) error {
	query := `
		INSERT INTO mutation_audit (id, order_id, kind, outcome, actor, from_status, to_status, amount, detail, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::numeric, $9, $10, $11)
	`

	_, err := a.pool.Exec(ctx, query,
		entry.ID,
		entry.OrderID,
		entry.Kind,
		entry.Outcome,
		entry.Actor,
		entry.FromStatus,
		entry.ToStatus,
		entry.Amount,
		entry.Detail,
		entry.Error,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func (a *AuditLog) ListByOrder(ctx context.Context, orderID string, limit int) ([]ports.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, order_id, kind, outcome, actor, from_status, to_status,
		       COALESCE(amount::text, ''), detail, error, created_at
		FROM mutation_audit
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := a.pool.Query(ctx, query, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []ports.AuditEntry{}
	for rows.Next() {
		var e ports.AuditEntry
		if err := rows.Scan(
			&e.ID,
			&e.OrderID,
			&e.Kind,
			&e.Outcome,
			&e.Actor,
			&e.FromStatus,
			&e.ToStatus,
			&e.Amount,
			&e.Detail,
			&e.Error,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}
