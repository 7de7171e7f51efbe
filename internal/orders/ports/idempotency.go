package ports

import (
	"context"
	"time"
)

// ReservationLease bounds how long a claimed key may stay without a response. A
// claim older than this is treated as abandoned and can be taken over.
const ReservationLease = 5 * time.Minute

// StoredResponse contains the response data to replay for a reused key.
type StoredResponse struct {
	// StatusCode is zero while the request holding the key is still running.
	StatusCode int
	Body       []byte
	OrderID    string
	// Fingerprint identifies the request body the key was first used with.
	Fingerprint string
}

// Pending reports whether the key is claimed but no response has been recorded yet.
func (r StoredResponse) Pending() bool { return r.StatusCode == 0 }

// IdempotencyStore lets refund submissions be retried without issuing a second refund.
// A key is claimed before the refund is forwarded, so two submissions can never both
// reach the upstream.
type IdempotencyStore interface {
	// Reserve claims key with claim's order and fingerprint. When the key is already
	// held, the holder's record is returned and claimed is false.
	Reserve(ctx context.Context, key string, claim StoredResponse) (existing *StoredResponse, claimed bool, err error)
	// Complete records the response for a key claimed by Reserve.
	Complete(ctx context.Context, key string, response StoredResponse) error
	// Release gives up a claim whose request failed, so the key can be retried.
	Release(ctx context.Context, key string) error
}
