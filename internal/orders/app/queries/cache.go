package queries

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

// cacheKey scopes entries to the caller's credential so one session never reads
// another's responses.
func cacheKey(ctx context.Context, view string, query ports.ListQuery) string {
	sum := sha256.Sum256([]byte(session.Token(ctx)))
	return view + ":" + hex.EncodeToString(sum[:8]) + ":" + query.Values().Encode()
}

// readThrough serves a page from cache or loads and stores it. Cache failures only
// cost a round trip. The generation is read before the load so a page fetched across
// an invalidation is never stored as current.
func readThrough[T any](ctx context.Context, cache ports.QueryCache, logger *slog.Logger, key string, load func(context.Context) (*T, error)) (*T, error) {
	generation, genErr := cache.Generation(ctx)
	if genErr != nil {
		logger.WarnContext(ctx, "query cache generation read failed", "key", key, "error", genErr)
	}

	if raw, ok, err := cache.Get(ctx, key); err != nil {
		logger.WarnContext(ctx, "query cache read failed", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	}

	page, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		return page, nil
	}
	if raw, err := json.Marshal(page); err == nil {
		if err := cache.Set(ctx, key, raw, generation); err != nil {
			logger.WarnContext(ctx, "query cache write failed", "key", key, "error", err)
		}
	}
	return page, nil
}
