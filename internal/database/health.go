package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckHealth pings the pool with a short deadline.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return pool.Ping(ctx)
}

// Checker adapts a pool to the readiness probe.
type Checker struct {
	pool *pgxpool.Pool
}

func NewChecker(pool *pgxpool.Pool) *Checker {
	return &Checker{pool: pool}
}

func (c *Checker) Name() string { return "postgres" }

func (c *Checker) Check(ctx context.Context) error {
	return CheckHealth(ctx, c.pool)
}
