// Package ratelimit counts requests per key in fixed windows. The in-memory
// limiter serves a single process; the Redis limiter shares counters between
// replicas.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// Memory is a fixed-window limiter kept in process memory.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]*bucket), now: time.Now}
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.windowEnd) {
		m.sweep(now)
		m.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets so idle clients do not accumulate.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.After(b.windowEnd) {
			delete(m.buckets, k)
		}
	}
}
