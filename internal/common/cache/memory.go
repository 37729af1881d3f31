// internal/common/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"

	"decision-core/internal/common/metrics"
)

type memoryEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

// MemoryCache is an in-process TTL cache guarded by a RWMutex.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swappable so tests can control expiry.
	now func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= entry.ttl {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	metrics.CacheInvalidations.WithLabelValues("memory").Inc()
	return nil
}
