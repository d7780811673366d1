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
	"promptlab-content-service/internal/richtext"
)

func TestPostService_BySlugSanitizesBody(t *testing.T) {
	docs := &MockBackend{name: "sanity"}
	docs.On("FetchBySlug", mock.Anything, domain.CollectionArticles, "guia").Return(&domain.ContentItem{
		ID:   "1",
		Slug: "guia",
		Body: `<p onclick="x()">Hola</p><script>alert(1)</script>`,
	}, nil)

	svc := NewPostService(docs, richtext.NewSanitizer(), zap.NewNop())

	item, err := svc.BySlug(context.Background(), domain.CollectionArticles, "guia")

	require.NoError(t, err)
	assert.Equal(t, "<p>Hola</p>", item.Body)
}

func TestPostService_BySlugErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wrapped bool
	}{
		{"not found passes through", domain.ErrNotFound, domain.ErrNotFound, false},
		{"unsupported passes through", domain.ErrUnsupportedCollection, domain.ErrUnsupportedCollection, false},
		{"transport becomes unavailable", errors.New("connection reset"), domain.ErrSourceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := &MockBackend{name: "sanity"}
			docs.On("FetchBySlug", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			svc := NewPostService(docs, richtext.NewSanitizer(), zap.NewNop())

			item, err := svc.BySlug(context.Background(), domain.CollectionArticles, "x")

			assert.Nil(t, item)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wrapped, errors.Is(err, domain.ErrSourceUnavailable))
		})
	}
}
