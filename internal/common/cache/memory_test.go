// internal/common/cache/memory_test.go
package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createClockedCache(start time.Time) (*MemoryCache, *time.Time) {
	current := start
	c := NewMemory()
	c.now = func() time.Time { return current }
	return c, &current
}

// ==========================
// Memory Backend Tests
// ==========================

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "leads.all", []byte(`[{"id":1}]`), time.Minute)

	value, found := c.Get(ctx, "leads.all")
	assert.True(t, found)
	assert.Equal(t, []byte(`[{"id":1}]`), value)
}

func TestMemoryCache_MissOnAbsentKey(t *testing.T) {
	value, found := NewMemory().Get(context.Background(), "nope")

	assert.False(t, found)
	assert.Nil(t, value)
}

func TestMemoryCache_EntryExpires(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c, clock := createClockedCache(start)

	c.Set(ctx, "audit.query", []byte(`[]`), 60*time.Second)

	*clock = start.Add(59 * time.Second)
	_, found := c.Get(ctx, "audit.query")
	assert.True(t, found, "entry is alive just before its ttl")

	*clock = start.Add(60 * time.Second)
	_, found = c.Get(ctx, "audit.query")
	assert.False(t, found, "entry expires exactly at its ttl")
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "key", []byte("old"), time.Minute)
	c.Set(ctx, "key", []byte("new"), time.Minute)

	value, found := c.Get(ctx, "key")
	assert.True(t, found)
	assert.Equal(t, []byte("new"), value)
}

func TestMemoryCache_NonPositiveTTLIsNotStored(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "key", []byte("value"), 0)

	_, found := c.Get(ctx, "key")
	assert.False(t, found)
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	assert.NoError(t, c.Clear(ctx))

	_, foundA := c.Get(ctx, "a")
	_, foundB := c.Get(ctx, "b")
	assert.False(t, foundA)
	assert.False(t, foundB)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(ctx, "shared", []byte("v"), time.Minute)
				c.Get(ctx, "shared")
				if j%25 == 0 {
					c.Clear(ctx)
				}
			}
		}()
	}
	wg.Wait()
}

// ==========================
// Key Builder Tests
// ==========================

func TestKey(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		parts     []interface{}
		expected  string
	}{
		{name: "no parts", operation: "leads.all", expected: "leads.all"},
		{name: "mixed parts", operation: "audit.query",
			parts:    []interface{}{"alert_creation", "founder", 0, 100},
			expected: "audit.query:alert_creation:founder:0:100"},
		{name: "empty strings preserved", operation: "audit.query",
			parts:    []interface{}{"", "", 10},
			expected: "audit.query:::10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Key(tc.operation, tc.parts...))
		})
	}
}
