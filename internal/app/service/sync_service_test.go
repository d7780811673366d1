package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
)

func withBody(items []domain.ContentItem, body string) []domain.ContentItem {
	out := make([]domain.ContentItem, len(items))
	for i, it := range items {
		it.Body = body
		out[i] = it
	}

	return out
}

func TestSyncService_SyncAll(t *testing.T) {
	articles := articleFixtures(3)
	tools := []domain.ContentItem{{ID: "t1", Collection: domain.CollectionTools, Slug: "chatgpt"}}

	sanity := &MockBackend{name: "sanity"}
	sanity.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articles, nil)
	sanity.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionTools}).Return(tools, nil)
	for _, a := range articles {
		doc := a
		doc.Body = "<p>body</p>"
		sanity.On("FetchBySlug", mock.Anything, domain.CollectionArticles, a.Slug).Return(&doc, nil)
	}

	notion := &MockBackend{name: "notion"}
	notion.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(nil, errors.New("401"))

	mirror := &MockMirror{MockBackend{name: "mirror"}}
	mirror.On("ReplaceCollection", mock.Anything, "sanity", domain.CollectionArticles, withBody(articles, "<p>body</p>")).Return(3, nil)
	mirror.On("ReplaceCollection", mock.Anything, "sanity", domain.CollectionTools, tools).Return(1, nil)

	inv := &MockInvalidator{}
	inv.On("Invalidate", mock.Anything).Return(nil).Once()

	svc := NewSyncService(mirror, []domain.Backend{sanity, notion}, inv, zap.NewNop())

	results := svc.SyncAll(context.Background())

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Error)
	assert.Equal(t, "sanity", results[0].Source)
	assert.Equal(t, 4, results[0].Count)
	assert.Equal(t, map[domain.Collection]int{domain.CollectionArticles: 3, domain.CollectionTools: 1}, results[0].Collections)

	assert.Error(t, results[1].Error)
	assert.Zero(t, results[1].Count)

	mirror.AssertExpectations(t)
	inv.AssertExpectations(t)
	assert.Equal(t, []string{"sanity", "notion"}, svc.SourceNames())
}

func TestSyncService_SkipsUnsupportedCollections(t *testing.T) {
	notion := &MockBackend{name: "notion"}
	notion.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return([]domain.ContentItem{}, nil)
	notion.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionTools}).Return(nil, domain.ErrUnsupportedCollection)

	mirror := &MockMirror{MockBackend{name: "mirror"}}
	mirror.On("ReplaceCollection", mock.Anything, "notion", domain.CollectionArticles, []domain.ContentItem{}).Return(0, nil)

	svc := NewSyncService(mirror, []domain.Backend{notion}, nil, zap.NewNop())

	result, err := svc.SyncSource(context.Background(), "notion")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	mirror.AssertNotCalled(t, "ReplaceCollection", mock.Anything, "notion", domain.CollectionTools, mock.Anything)
}

func TestSyncService_StopsOnBodyErrors(t *testing.T) {
	articles := articleFixtures(1)

	sanity := &MockBackend{name: "sanity"}
	sanity.On("FetchPublished", mock.Anything, domain.Facet{Collection: domain.CollectionArticles}).Return(articles, nil)
	sanity.On("FetchBySlug", mock.Anything, domain.CollectionArticles, articles[0].Slug).Return(nil, errors.New("timeout"))

	mirror := &MockMirror{MockBackend{name: "mirror"}}
	inv := &MockInvalidator{}

	svc := NewSyncService(mirror, []domain.Backend{sanity}, inv, zap.NewNop())

	result, err := svc.SyncSource(context.Background(), "sanity")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "syncing sanity/articles")
	assert.Equal(t, "sanity", result.Source)
	mirror.AssertNotCalled(t, "ReplaceCollection", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	inv.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestSyncService_UnknownSource(t *testing.T) {
	svc := NewSyncService(&MockMirror{}, nil, nil, zap.NewNop())

	result, err := svc.SyncSource(context.Background(), "wordpress")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestSyncService_MirroredCount(t *testing.T) {
	mirror := &MockMirror{MockBackend{name: "mirror"}}
	mirror.On("Count", mock.Anything, "sanity").Return(int64(7), nil)

	svc := NewSyncService(mirror, nil, nil, zap.NewNop())

	n, err := svc.MirroredCount(context.Background(), "sanity")

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
