package domain

import (
	"context"
	"time"
)

// ContentSource supplies the published items matching a coarse facet.
// Implementations return every match or an error; never a truncated set.
type ContentSource interface {
	FetchPublished(ctx context.Context, facet Facet) ([]ContentItem, error)
}

// DocumentSource loads one published item, including its rendered body.
type DocumentSource interface {
	FetchBySlug(ctx context.Context, collection Collection, slug string) (*ContentItem, error)
}

// CategoryCatalog lists the article categories defined in the CMS, including
// those no published article uses yet. ArticleCount is left at zero.
type CategoryCatalog interface {
	Categories(ctx context.Context) ([]Category, error)
}

// HealthChecker verifies a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Backend is a complete CMS adapter.
type Backend interface {
	ContentSource
	DocumentSource
	HealthChecker
	Name() string
}

// MirrorRepository persists CMS content for local serving.
type MirrorRepository interface {
	Backend
	ReplaceCollection(ctx context.Context, source string, collection Collection, items []ContentItem) (int, error)
	Count(ctx context.Context, source string) (int64, error)
}

// Cache defines the interface for caching operations.
// Implementations should handle serialization and TTL management.
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values (useful for cache invalidation).
	Clear(ctx context.Context) error
}

// Subscription is a newsletter sign-up request.
type Subscription struct {
	Email string
	Name  string
}

// Subscriber registers newsletter subscriptions with an external provider.
type Subscriber interface {
	Name() string
	Subscribe(ctx context.Context, sub Subscription) error
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// HealthCheck calls f(ctx).
func (f HealthCheckFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}
