package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// reserveAttempts covers a held row vanishing between the claim and the lookup.
const reserveAttempts = 3

type Store struct {
	pool  *pgxpool.Pool
	ttl   time.Duration
	lease time.Duration
}

func NewStore(pool *pgxpool.Pool, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{pool: pool, ttl: ttl, lease: ports.ReservationLease}
}

// Reserve inserts a pending row for key, or takes over an expired one. The primary
// key makes the claim exclusive across every console instance.
func (s *Store) Reserve(ctx context.Context, key string, claim ports.StoredResponse) (*ports.StoredResponse, bool, error) {
	claimQuery := `
		INSERT INTO refund_idempotency_keys (key, order_id, status_code, body, fingerprint, expires_at)
		VALUES ($1, $2, 0, '', $3, now() + make_interval(secs => $4))
		ON CONFLICT (key) DO UPDATE
		SET order_id = EXCLUDED.order_id,
		    status_code = 0,
		    body = EXCLUDED.body,
		    fingerprint = EXCLUDED.fingerprint,
		    expires_at = EXCLUDED.expires_at,
		    created_at = now()
		WHERE refund_idempotency_keys.expires_at <= now()
		RETURNING key
	`
	selectQuery := `
		SELECT status_code, body, order_id, fingerprint
		FROM refund_idempotency_keys
		WHERE key = $1 AND expires_at > now()
	`

	for range reserveAttempts {
		var claimedKey string
		err := s.pool.QueryRow(ctx, claimQuery, key, claim.OrderID, claim.Fingerprint, s.lease.Seconds()).Scan(&claimedKey)
		if err == nil {
			return nil, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("claim idempotency key: %w", err)
		}

		var existing ports.StoredResponse
		err = s.pool.QueryRow(ctx, selectQuery, key).Scan(
			&existing.StatusCode,
			&existing.Body,
			&existing.OrderID,
			&existing.Fingerprint,
		)
		if err == nil {
			return &existing, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("select idempotency key: %w", err)
		}
	}
	return nil, false, fmt.Errorf("claim idempotency key %q: lost %d races", key, reserveAttempts)
}

// Complete fills in the response of a pending row. A completed row keeps its first response.
func (s *Store) Complete(ctx context.Context, key string, response ports.StoredResponse) error {
	query := `
		UPDATE refund_idempotency_keys
		SET status_code = $2,
		    body = $3,
		    order_id = $4,
		    fingerprint = $5,
		    expires_at = now() + make_interval(secs => $6)
		WHERE key = $1 AND status_code = 0
	`

	_, err := s.pool.Exec(ctx, query,
		key,
		response.StatusCode,
		response.Body,
		response.OrderID,
		response.Fingerprint,
		s.ttl.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release deletes a pending row so the key can be submitted again.
func (s *Store) Release(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM refund_idempotency_keys WHERE key = $1 AND status_code = 0`, key); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
