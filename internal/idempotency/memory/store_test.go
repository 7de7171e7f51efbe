package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := NewStoreWithTTL(time.Hour)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	claim := ports.StoredResponse{OrderID: "order-1", Fingerprint: "abc"}
	existing, claimed, err := store.Reserve(ctx, "key-1", claim)
	require.NoError(t, err)
	require.True(t, claimed)
	require.Nil(t, existing)

	existing, claimed, err = store.Reserve(ctx, "key-1", claim)
	require.NoError(t, err)
	require.False(t, claimed)
	require.True(t, existing.Pending(), "second submission sees the claim in flight")
	require.Equal(t, "abc", existing.Fingerprint)

	done := ports.StoredResponse{StatusCode: 200, Body: []byte(`{"ok":true}`), OrderID: "order-1", Fingerprint: "abc"}
	require.NoError(t, store.Complete(ctx, "key-1", done))
	require.NoError(t, store.Complete(ctx, "key-1", ports.StoredResponse{StatusCode: 500}))

	existing, claimed, err = store.Reserve(ctx, "key-1", claim)
	require.NoError(t, err)
	require.False(t, claimed)
	require.Equal(t, 200, existing.StatusCode, "first completed response wins")
	require.JSONEq(t, `{"ok":true}`, string(existing.Body))

	now = now.Add(2 * time.Hour)
	_, claimed, err = store.Reserve(ctx, "key-1", claim)
	require.NoError(t, err)
	require.True(t, claimed, "expired keys are forgotten")
}

func TestStoreReleaseAndLease(t *testing.T) {
	ctx := context.Background()
	store := NewStoreWithTTL(time.Hour)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	claim := ports.StoredResponse{OrderID: "order-1", Fingerprint: "abc"}

	_, claimed, _ := store.Reserve(ctx, "key-1", claim)
	require.True(t, claimed)
	require.NoError(t, store.Release(ctx, "key-1"))
	_, claimed, _ = store.Reserve(ctx, "key-1", claim)
	require.True(t, claimed, "a released key can be retried")

	now = now.Add(ports.ReservationLease + time.Second)
	_, claimed, _ = store.Reserve(ctx, "key-1", claim)
	require.True(t, claimed, "an abandoned claim is taken over after the lease")
}

func TestStoreReserveIsExclusive(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, claimed, err := store.Reserve(ctx, "key-1", ports.StoredResponse{OrderID: "order-1"}); err == nil && claimed {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, wins.Load())
}
