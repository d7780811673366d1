package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/metrics"
)

// Cached decorates a Backend with a short-lived candidate cache. Concurrent
// misses for the same facet share a single upstream fetch. Cache failures
// are logged and fall through to the backend.
type Cached struct {
	domain.Backend

	cache  domain.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewCached wraps backend with cache.
func NewCached(backend domain.Backend, cache domain.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{
		Backend: backend,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// CandidatesKey is the cache key for one backend facet.
func CandidatesKey(backend string, facet domain.Facet) string {
	return fmt.Sprintf("candidates:%s:%s:%s", backend, facet.Collection, facet.Category)
}

// FetchPublished serves the facet from cache or loads and stores it.
func (c *Cached) FetchPublished(ctx context.Context, facet domain.Facet) ([]domain.ContentItem, error) {
	key := CandidatesKey(c.Name(), facet)

	if items, ok := c.lookup(ctx, key); ok {
		return items, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// Shared callers must not fail because the first caller went away.
		fetchCtx := context.WithoutCancel(ctx)

		items, err := c.Backend.FetchPublished(fetchCtx, facet)
		if err != nil {
			return nil, err
		}
		c.store(fetchCtx, key, items)

		return items, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("candidate fetch shared", zap.String("key", key))
	}

	return v.([]domain.ContentItem), nil
}

func (c *Cached) lookup(ctx context.Context, key string) ([]domain.ContentItem, bool) {
	return lookup[[]domain.ContentItem](ctx, c.cache, key, c.logger)
}

func (c *Cached) store(ctx context.Context, key string, items []domain.ContentItem) {
	if items == nil {
		items = []domain.ContentItem{}
	}
	store(ctx, c.cache, key, items, c.ttl, c.logger)
}

func lookup[T any](ctx context.Context, cache domain.Cache, key string, logger *zap.Logger) (T, bool) {
	var value T

	data, err := cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))

		return value, false
	}
	if data == nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		_ = cache.Delete(ctx, key)

		var zero T

		return zero, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()

	return value, true
}

func store[T any](ctx context.Context, cache domain.Cache, key string, value T, ttl time.Duration, logger *zap.Logger) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))

		return
	}
	if err := cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached candidate set.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// CachedCatalog decorates a CategoryCatalog with the candidate cache, so
// Invalidate on the cache also drops the category list.
type CachedCatalog struct {
	catalog domain.CategoryCatalog
	backend string
	cache   domain.Cache
	ttl     time.Duration
	group   singleflight.Group
	logger  *zap.Logger
}

// NewCachedCatalog wraps the catalog of the named backend with cache.
func NewCachedCatalog(backend string, catalog domain.CategoryCatalog, cache domain.Cache, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{
		catalog: catalog,
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// CategoriesKey is the cache key for a backend's category catalog.
func CategoriesKey(backend string) string {
	return "categories:" + backend
}

// Categories serves the catalog from cache or loads and stores it.
func (c *CachedCatalog) Categories(ctx context.Context) ([]domain.Category, error) {
	key := CategoriesKey(c.backend)

	if categories, ok := lookup[[]domain.Category](ctx, c.cache, key, c.logger); ok {
		return categories, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)

		categories, err := c.catalog.Categories(fetchCtx)
		if err != nil {
			return nil, err
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		store(fetchCtx, c.cache, key, categories, c.ttl, c.logger)

		return categories, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Category), nil
}
