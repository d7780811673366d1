// Package redis provides the Redis-backed candidate cache.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// clearBatch is the number of keys scanned and unlinked per round trip.
const clearBatch = 500

// Cache implements domain.Cache on Redis. Every key is namespaced by keyPrefix
// so Clear never touches keys owned by other applications or by the locker.
type Cache struct {
	client    redis.UniversalClient
	logger    *zap.Logger
	keyPrefix string
}

// NewCache creates a new Redis cache.
func NewCache(client redis.UniversalClient, logger *zap.Logger, keyPrefix string) *Cache {
	return &Cache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached value, or nil when the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		c.logger.Warn("redis cache get failed", zap.String("key", key), zap.Error(err))

		return nil, err
	}

	return data, nil
}

// Set stores value under key for ttl.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Clear unlinks every key under the prefix, scanning in batches so large
// keyspaces never block the server.
func (c *Cache) Clear(ctx context.Context) error {
	var (
		cursor  uint64
		removed int64
	)
	pattern := c.keyPrefix + ":*"

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, clearBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			n, err := c.client.Unlink(ctx, keys...).Result()
			if err != nil {
				return err
			}
			removed += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	c.logger.Info("redis cache cleared",
		zap.String("pattern", pattern),
		zap.Int64("removed", removed),
	)

	return nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) key(key string) string {
	return c.keyPrefix + ":" + key
}
