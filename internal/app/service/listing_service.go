// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/listing"
	"promptlab-content-service/internal/metrics"
)

// RelatedLimit is the number of related articles listed under a post.
const RelatedLimit = 3

// ToolListing is one page of a tool grid plus the tags available in its category.
type ToolListing struct {
	domain.Page
	Tags []domain.FacetCount `json:"tags"`
}

// ListingService resolves listing requests against a content source.
type ListingService struct {
	source  domain.ContentSource
	catalog domain.CategoryCatalog
	sizes   domain.PageSizes
	logger  *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(source domain.ContentSource, sizes domain.PageSizes, logger *zap.Logger) *ListingService {
	return &ListingService{
		source: source,
		sizes:  sizes,
		logger: logger,
	}
}

// WithCatalog sets the category catalog used to title categories and to
// list those without articles.
func (s *ListingService) WithCatalog(catalog domain.CategoryCatalog) *ListingService {
	s.catalog = catalog

	return s
}

// PageSizes returns the configured page sizes.
func (s *ListingService) PageSizes() domain.PageSizes {
	return s.sizes
}

// List fetches the request's candidates and resolves one page. When the
// source fails it returns an empty page together with the error, so callers
// can still render a well-formed response.
func (s *ListingService) List(ctx context.Context, req domain.ListingRequest) (domain.Page, error) {
	candidates, err := s.fetch(ctx, req.Facet)
	if err != nil {
		return domain.EmptyPage(req.Page, req.PageSize), err
	}

	page := listing.ResolveRequest(candidates, req)
	metrics.ListingResultsTotal.WithLabelValues(string(req.Facet.Collection)).Observe(float64(page.Total))

	s.logger.Debug("listing resolved",
		zap.String("collection", string(req.Facet.Collection)),
		zap.String("category", req.Facet.Category),
		zap.String("sort", string(req.Sort)),
		zap.Int("candidates", len(candidates)),
		zap.Int("total", page.Total),
		zap.Int("page", page.Page),
	)

	return page, nil
}

// Posts lists published articles, optionally narrowed to a category.
func (s *ListingService) Posts(ctx context.Context, category string, filter domain.FilterSpec, sort domain.SortKey, page int) (domain.Page, error) {
	return s.List(ctx, domain.ListingRequest{
		Facet:    domain.Facet{Collection: domain.CollectionArticles, Category: category},
		Filter:   filter,
		Sort:     sort,
		Page:     page,
		PageSize: s.sizes.Articles,
	})
}

// Search lists articles whose searchable text contains term, newest first.
func (s *ListingService) Search(ctx context.Context, term, category string, tags []string, page int) (domain.Page, error) {
	return s.List(ctx, domain.ListingRequest{
		Facet:    domain.Facet{Collection: domain.CollectionArticles, Category: category},
		Filter:   domain.FilterSpec{SearchTerm: term, Tags: tags},
		Sort:     domain.SortRecent,
		Page:     page,
		PageSize: s.sizes.Search,
	})
}

// Featured returns the most recent featured articles.
func (s *ListingService) Featured(ctx context.Context) ([]domain.ContentItem, error) {
	page, err := s.List(ctx, domain.ListingRequest{
		Facet:    domain.Facet{Collection: domain.CollectionArticles},
		Filter:   domain.FilterSpec{FeaturedOnly: true},
		Sort:     domain.SortRecent,
		Page:     1,
		PageSize: s.sizes.Featured,
	})

	return page.Items, err
}

// Related returns the most recent articles sharing a category or a tag with
// the article identified by slug.
func (s *ListingService) Related(ctx context.Context, slug string) ([]domain.ContentItem, error) {
	candidates, err := s.fetch(ctx, domain.Facet{Collection: domain.CollectionArticles})
	if err != nil {
		return []domain.ContentItem{}, err
	}

	i := slices.IndexFunc(candidates, func(item domain.ContentItem) bool { return item.Slug == slug })
	if i < 0 {
		return []domain.ContentItem{}, domain.ErrNotFound
	}

	return listing.Related(listing.Sort(candidates, domain.SortRecent), &candidates[i], RelatedLimit), nil
}

// Tools lists one category of the tool grid and reports the tags present in
// that category before client filters apply.
func (s *ListingService) Tools(ctx context.Context, category string, filter domain.FilterSpec, sort domain.SortKey, page int) (ToolListing, error) {
	facet := domain.Facet{Collection: domain.CollectionTools, Category: category}

	candidates, err := s.fetch(ctx, facet)
	if err != nil {
		return ToolListing{Page: domain.EmptyPage(page, s.sizes.Tools), Tags: []domain.FacetCount{}}, err
	}

	result := ToolListing{
		Page: listing.Resolve(candidates, filter, sort, page, s.sizes.Tools),
		Tags: listing.CountTags(candidates),
	}
	metrics.ListingResultsTotal.WithLabelValues(string(facet.Collection)).Observe(float64(result.Total))

	return result, nil
}

// CategoryCounts returns every article category with its published item count.
func (s *ListingService) CategoryCounts(ctx context.Context) ([]domain.FacetCount, error) {
	candidates, err := s.fetch(ctx, domain.Facet{Collection: domain.CollectionArticles})
	if err != nil {
		return []domain.FacetCount{}, err
	}

	return listing.CountCategories(candidates), nil
}

// Categories returns the article categories titled from the catalog, each
// with its published article count. Without a catalog, or when it fails,
// only categories found on articles are listed.
func (s *ListingService) Categories(ctx context.Context) ([]domain.Category, error) {
	counts, err := s.CategoryCounts(ctx)
	if err != nil {
		return []domain.Category{}, err
	}

	var catalog []domain.Category
	if s.catalog != nil {
		catalog, err = s.catalog.Categories(ctx)
		if err != nil {
			s.logger.Warn("category catalog unavailable, listing article categories only", zap.Error(err))
			catalog = nil
		}
	}

	return listing.MergeCategories(catalog, counts), nil
}

// Category returns one category by slug (case-insensitive).
func (s *ListingService) Category(ctx context.Context, slug string) (domain.Category, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return domain.Category{}, err
	}

	for _, c := range categories {
		if strings.EqualFold(c.Slug, slug) {
			return c, nil
		}
	}

	return domain.Category{}, domain.ErrNotFound
}

// fetch loads candidates and classifies failures. Unsupported collections
// pass through unchanged; every other error becomes ErrSourceUnavailable.
func (s *ListingService) fetch(ctx context.Context, facet domain.Facet) ([]domain.ContentItem, error) {
	candidates, err := s.source.FetchPublished(ctx, facet)
	if err == nil {
		return candidates, nil
	}

	if errors.Is(err, domain.ErrUnsupportedCollection) {
		s.logger.Info("collection not served by source",
			zap.String("collection", string(facet.Collection)),
		)

		return nil, err
	}

	s.logger.Error("content source fetch failed",
		zap.String("collection", string(facet.Collection)),
		zap.String("category", facet.Category),
		zap.Error(err),
	)

	return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
}
