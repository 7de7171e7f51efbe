// Package cache holds list responses between mutations. Invalidation drops everything;
// per-key eviction is never needed because any mutation can change any aggregate.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a process-local QueryCache.
type Memory struct {
	mu         sync.RWMutex
	items      map[string]entry
	generation int64
	ttl        time.Duration
	now        func() time.Time
}

// NewMemory creates a cache whose entries live for ttl. A ttl of zero keeps entries until invalidated.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *Memory) Generation(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set drops the write when an Invalidate happened after generation was read.
func (m *Memory) Set(_ context.Context, key string, value []byte, generation int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.generation {
		return nil
	}
	e := entry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.items[key] = e
	return nil
}

func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]entry)
	m.generation++
	return nil
}

// Disabled never stores anything.
type Disabled struct{}

func (Disabled) Generation(context.Context) (int64, error)         { return 0, nil }
func (Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Disabled) Set(context.Context, string, []byte, int64) error  { return nil }
func (Disabled) Invalidate(context.Context) error                  { return nil }
