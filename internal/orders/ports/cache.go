package ports

import "context"

// QueryCache holds encoded list responses between mutations.
type QueryCache interface {
	// Generation identifies the current invalidation epoch. Read it before loading a
	// page and hand it back to Set.
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for the given generation. A page loaded before an Invalidate
	// must never become visible after it.
	Set(ctx context.Context, key string, value []byte, generation int64) error
	// Invalidate drops every cached entry.
	Invalidate(ctx context.Context) error
}
