// Package memory provides an in-process candidate cache for single-instance
// deployments without Redis.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache implements domain.Cache on a size-bounded expiring LRU. maxTTL caps
// every entry's lifetime; shorter per-entry TTLs are checked on read.
type Cache struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// NewCache creates a cache holding at most size entries for at most maxTTL.
func NewCache(size int, maxTTL time.Duration) *Cache {
	if size <= 0 {
		size = 1
	}

	return &Cache{
		lru: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get returns the cached value, or nil when absent or expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)

		return nil, nil
	}

	return e.value, nil
}

// Set stores a copy of value for ttl. A non-positive ttl keeps the entry until
// the LRU's own expiry evicts it.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.lru.Add(key, e)

	return nil
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)

	return nil
}

// Clear removes every entry.
func (c *Cache) Clear(_ context.Context) error {
	c.lru.Purge()

	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
