package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/metrics"
)

// bodyFetchConcurrency bounds parallel detail requests per source during sync.
const bodyFetchConcurrency = 4

// ErrUnknownSource is returned when a sync is requested for an unconfigured source.
var ErrUnknownSource = errors.New("unknown sync source")

// Invalidator drops cached listings after the mirror changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// SyncService copies upstream CMS content into the mirror.
type SyncService struct {
	mirror      domain.MirrorRepository
	upstreams   []domain.Backend
	invalidator Invalidator
	logger      *zap.Logger
}

// NewSyncService creates a new SyncService. invalidator may be nil.
func NewSyncService(mirror domain.MirrorRepository, upstreams []domain.Backend, invalidator Invalidator, logger *zap.Logger) *SyncService {
	return &SyncService{
		mirror:      mirror,
		upstreams:   upstreams,
		invalidator: invalidator,
		logger:      logger,
	}
}

// SyncResult holds the outcome of syncing one source.
type SyncResult struct {
	Source      string                    `json:"source"`
	Count       int                       `json:"count"`
	Collections map[domain.Collection]int `json:"collections"`
	Duration    time.Duration             `json:"duration"`
	Error       error                     `json:"-"`
}

// SyncAll synchronizes every upstream concurrently. Partial failures are allowed.
func (s *SyncService) SyncAll(ctx context.Context) []SyncResult {
	results := make([]SyncResult, len(s.upstreams))
	var wg sync.WaitGroup

	s.logger.Info("starting sync from all sources", zap.Int("source_count", len(s.upstreams)))

	for i, upstream := range s.upstreams {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.syncSource(ctx, upstream)
		}()
	}
	wg.Wait()

	totalSynced, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			totalSynced += r.Count
		}
	}
	if failed < len(results) {
		s.invalidate(ctx)
	}

	s.logger.Info("sync completed",
		zap.Int("total_synced", totalSynced),
		zap.Int("sources_failed", failed),
	)

	return results
}

// SyncSource synchronizes one upstream by name.
func (s *SyncService) SyncSource(ctx context.Context, name string) (*SyncResult, error) {
	for _, upstream := range s.upstreams {
		if upstream.Name() != name {
			continue
		}

		result := s.syncSource(ctx, upstream)
		if result.Error == nil {
			s.invalidate(ctx)
		}

		return &result, result.Error
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// SourceNames returns the names of all configured upstreams.
func (s *SyncService) SourceNames() []string {
	names := make([]string, len(s.upstreams))
	for i, upstream := range s.upstreams {
		names[i] = upstream.Name()
	}

	return names
}

// MirroredCount returns the number of mirrored items for a source.
func (s *SyncService) MirroredCount(ctx context.Context, source string) (int64, error) {
	return s.mirror.Count(ctx, source)
}

// syncSource replaces every collection the upstream models. A collection the
// upstream does not support is skipped; any other failure aborts the source
// before its remaining collections are touched.
func (s *SyncService) syncSource(ctx context.Context, upstream domain.Backend) SyncResult {
	start := time.Now()
	name := upstream.Name()
	result := SyncResult{Source: name, Collections: make(map[domain.Collection]int)}

	for _, collection := range []domain.Collection{domain.CollectionArticles, domain.CollectionTools} {
		items, err := upstream.FetchPublished(ctx, domain.Facet{Collection: collection})
		if errors.Is(err, domain.ErrUnsupportedCollection) {
			continue
		}
		if err == nil && collection == domain.CollectionArticles {
			items = slices.Clone(items)
			err = s.loadBodies(ctx, upstream, items)
		}
		if err == nil {
			var n int
			n, err = s.mirror.ReplaceCollection(ctx, name, collection, items)
			result.Collections[collection] = n
			result.Count += n
		}
		if err != nil {
			result.Error = fmt.Errorf("syncing %s/%s: %w", name, collection, err)
			break
		}
	}

	result.Duration = time.Since(start)
	metrics.SyncedItemsTotal.WithLabelValues(name, metrics.Status(result.Error)).Add(float64(result.Count))

	if result.Error != nil {
		s.logger.Warn("source sync failed",
			zap.String("source", name),
			zap.Error(result.Error),
		)

		return result
	}

	s.logger.Info("source sync completed",
		zap.String("source", name),
		zap.Int("count", result.Count),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// loadBodies fills each article's rendered body so the mirror can serve
// detail pages. items is updated in place.
func (s *SyncService) loadBodies(ctx context.Context, upstream domain.Backend, items []domain.ContentItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bodyFetchConcurrency)

	for i := range items {
		g.Go(func() error {
			doc, err := upstream.FetchBySlug(gctx, items[i].Collection, items[i].Slug)
			if errors.Is(err, domain.ErrNotFound) {
				// Unpublished between list and detail; the next sync prunes it.
				return nil
			}
			if err != nil {
				return fmt.Errorf("loading body of %q: %w", items[i].Slug, err)
			}
			items[i].Body = doc.Body

			return nil
		})
	}

	return g.Wait()
}

func (s *SyncService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation after sync failed", zap.Error(err))
	}
}
