package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process fixed-window Counter for tests and
// single-instance development. It does not share state across processes;
// production deployments use RedisCounter.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*countWindow
	now     func() time.Time
}

type countWindow struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounter creates an empty in-process counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]*countWindow),
		now:     time.Now,
	}
}

var _ Counter = (*MemoryCounter)(nil)

// Incr increments the key's counter, starting a fresh window when the
// previous one has elapsed. Expired entries are replaced lazily on access.
func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	w, ok := c.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &countWindow{resetAt: now.Add(window)}
		c.windows[key] = w
	}
	w.count++
	return w.count, nil
}
