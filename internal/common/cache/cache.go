// internal/common/cache/cache.go

// Package cache provides the shared TTL cache used by the decision core's
// read paths. The cache is an injected service, not package state: one
// instance per process, passed by reference to every caller. Both backends
// are safe for concurrent use by in-flight requests.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache memoizes expensive read paths. Get reports a miss for absent,
// expired, or unreadable entries; Set overwrites unconditionally. Clear
// drops every entry and is the only invalidation the contract requires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Clear(ctx context.Context) error
}

// Key builds a cache key from an operation identity and its arguments.
// Session/connection-like arguments must be excluded by the caller.
func Key(operation string, parts ...interface{}) string {
	if len(parts) == 0 {
		return operation
	}
	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		rendered = append(rendered, fmt.Sprintf("%v", p))
	}
	return operation + ":" + strings.Join(rendered, ":")
}
