package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func articleFixtures(n int) []domain.ContentItem {
	items := make([]domain.ContentItem, n)
	for i := range n {
		items[i] = domain.ContentItem{
			ID:          fmt.Sprintf("a%02d", i),
			Collection:  domain.CollectionArticles,
			Slug:        fmt.Sprintf("post-%02d", i),
			Title:       fmt.Sprintf("Post %02d", i),
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
			Featured:    i%3 == 0,
			Categories:  []string{[]string{"ia", "seo"}[i%2]},
			Tags:        []string{[]string{"chatgpt", "python", "ia"}[i%3]},
		}
	}

	return items
}

func newListingService(source domain.ContentSource) *ListingService {
	return NewListingService(source, domain.DefaultPageSizes(), zap.NewNop())
}

func TestListingService_Posts(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	facet := domain.Facet{Collection: domain.CollectionArticles, Category: "ia"}
	source.On("FetchPublished", mock.Anything, facet).Return(articleFixtures(25), nil)

	svc := newListingService(source)

	page, err := svc.Posts(context.Background(), "ia", domain.FilterSpec{}, domain.SortRecent, 1)

	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Items, 12)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, "a24", page.Items[0].ID)
	source.AssertExpectations(t)
}

func TestListingService_SourceUnavailable(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout"))

	svc := newListingService(source)

	page, err := svc.Posts(context.Background(), "", domain.FilterSpec{}, domain.SortRecent, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "dial tcp")
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 12, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListingService_EmptyResultIsNotAnError(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, mock.Anything).Return([]domain.ContentItem{}, nil)

	svc := newListingService(source)

	page, err := svc.Search(context.Background(), "inexistente", "", nil, 1)

	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
	assert.Equal(t, 9, page.PageSize)
	assert.False(t, page.HasNextPage)
}

func TestListingService_Search(t *testing.T) {
	items := []domain.ContentItem{
		{ID: "1", Title: "Guía de IA", PublishedAt: base},
		{ID: "2", Title: "Machine Learning", PublishedAt: base.Add(time.Hour)},
		{ID: "3", Title: "Prompts", Excerpt: "Trucos para la ia generativa", PublishedAt: base.Add(2 * time.Hour)},
	}
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(items, nil)

	svc := newListingService(source)

	page, err := svc.Search(context.Background(), "IA", "", nil, 1)

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "3", page.Items[0].ID)
	assert.Equal(t, "1", page.Items[1].ID)
}

func TestListingService_Featured(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articleFixtures(25), nil)

	svc := newListingService(source)

	items, err := svc.Featured(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 6)
	for _, it := range items {
		assert.True(t, it.Featured)
	}
	assert.Equal(t, "a24", items[0].ID)
	assert.Equal(t, "a09", items[5].ID)
}

func TestListingService_Tools(t *testing.T) {
	r5, r4 := 5.0, 4.0
	tools := []domain.ContentItem{
		{ID: "t1", Title: "Alpha", Rating: &r4, PriceType: domain.PriceTypeFree, Tags: []string{"texto"}},
		{ID: "t2", Title: "Beta", Rating: &r5, PriceType: domain.PriceTypePremium, Tags: []string{"imagen", "texto"}},
		{ID: "t3", Title: "Gamma", Featured: true, PriceType: domain.PriceTypeFree, Tags: []string{"Texto"}},
	}
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionTools, Category: "principiantes"}).Return(tools, nil)

	svc := newListingService(source)

	result, err := svc.Tools(context.Background(), "principiantes",
		domain.FilterSpec{PriceTypes: []domain.PriceType{domain.PriceTypeFree}}, domain.SortFeatured, 1)

	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "t3", result.Items[0].ID)
	assert.Equal(t, "t1", result.Items[1].ID)
	assert.Equal(t, []domain.FacetCount{{ID: "texto", Count: 3}, {ID: "imagen", Count: 1}}, result.Tags)
}

func TestListingService_ToolsUnsupported(t *testing.T) {
	source := &MockBackend{name: "notion"}
	source.On("FetchPublished", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCollection, "tools"))

	svc := newListingService(source)

	result, err := svc.Tools(context.Background(), "principiantes", domain.FilterSpec{}, domain.SortFeatured, 1)

	assert.ErrorIs(t, err, domain.ErrUnsupportedCollection)
	assert.NotErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Tags)
}

func TestListingService_CategoryCounts(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articleFixtures(5), nil)

	svc := newListingService(source)

	counts, err := svc.CategoryCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.FacetCount{{ID: "ia", Count: 3}, {ID: "seo", Count: 2}}, counts)
}

func TestListingService_Categories(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articleFixtures(5), nil)
	catalog := &MockCatalog{}
	catalog.On("Categories", mock.Anything).Return([]domain.Category{
		{Slug: "seo", Title: "Posicionamiento"},
		{Slug: "automatizacion", Title: "Automatización"},
	}, nil)

	svc := newListingService(source).WithCatalog(catalog)

	categories, err := svc.Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{Slug: "automatizacion", Title: "Automatización", ArticleCount: 0},
		{Slug: "ia", Title: "ia", ArticleCount: 3},
		{Slug: "seo", Title: "Posicionamiento", ArticleCount: 2},
	}, categories)

	category, err := svc.Category(context.Background(), "SEO")
	require.NoError(t, err)
	assert.Equal(t, "Posicionamiento", category.Title)

	_, err = svc.Category(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingService_CategoriesCatalogFailure(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articleFixtures(5), nil)
	catalog := &MockCatalog{}
	catalog.On("Categories", mock.Anything).Return(nil, errors.New("catalog down"))

	categories, err := newListingService(source).WithCatalog(catalog).Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{Slug: "ia", Title: "ia", ArticleCount: 3},
		{Slug: "seo", Title: "seo", ArticleCount: 2},
	}, categories)
}

func TestListingService_CategoriesSourceUnavailable(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	catalog := &MockCatalog{}

	categories, err := newListingService(source).WithCatalog(catalog).Categories(context.Background())

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
	catalog.AssertNotCalled(t, "Categories", mock.Anything)
}

func TestListingService_Related(t *testing.T) {
	source := &MockBackend{name: "sanity"}
	source.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articleFixtures(10), nil)

	svc := newListingService(source)

	related, err := svc.Related(context.Background(), "post-05")

	require.NoError(t, err)
	require.Len(t, related, RelatedLimit)
	assert.Equal(t, "a09", related[0].ID)
	assert.Equal(t, "a08", related[1].ID)
	assert.Equal(t, "a07", related[2].ID)

	related, err = svc.Related(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotNil(t, related)
}
