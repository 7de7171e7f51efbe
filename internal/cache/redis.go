package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxRetries   = 3
	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
)

// ConnectRedis opens a client and verifies it with a ping.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   maxRetries,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Redis is a QueryCache shared by every console instance. Keys are namespaced by a
// generation counter; Invalidate bumps the counter and stale generations expire by TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "admin:orders"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) generationKey() string { return r.prefix + ":generation" }

func (r *Redis) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache generation: %w", err)
	}
	return gen, nil
}

func (r *Redis) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, key)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	gen, err := r.Generation(ctx)
	if err != nil {
		return nil, false, err
	}
	value, err := r.client.Get(ctx, r.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return value, true, nil
}

// Set writes under the caller's generation. A page loaded before an Invalidate lands
// in a retired namespace that no Get reads again, and expires by TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte, generation int64) error {
	if err := r.client.Set(ctx, r.entryKey(generation, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.generationKey()).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable, for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Name identifies the cache in readiness reports.
func (r *Redis) Name() string { return "redis" }

// Check implements the readiness probe.
func (r *Redis) Check(ctx context.Context) error { return r.Ping(ctx) }
