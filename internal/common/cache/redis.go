// internal/common/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"time"

	"decision-core/internal/common/logger"
	"decision-core/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis under a shared key prefix so Clear can
// invalidate the whole cache without touching unrelated keys in the same DB.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger logger.Logger
}

// NewRedis creates a Redis-backed cache. Backend errors are treated as
// cache misses; the cache must never fail a read path.
func NewRedis(client *redis.Client, prefix string, log logger.Logger) *RedisCache {
	if prefix == "" {
		prefix = "dcore"
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "cache", "backend": "redis"}),
	}
}

func (c *RedisCache) namespaced(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.namespaced(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed, treating as miss", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.namespaced(key), value, ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	pattern := c.prefix + ":*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache clear scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache clear delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	metrics.CacheInvalidations.WithLabelValues("redis").Inc()
	return nil
}
