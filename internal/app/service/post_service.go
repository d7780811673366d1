package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/richtext"
)

// PostService loads single documents for detail pages.
type PostService struct {
	docs      domain.DocumentSource
	sanitizer *richtext.Sanitizer
	logger    *zap.Logger
}

// NewPostService creates a new PostService.
func NewPostService(docs domain.DocumentSource, sanitizer *richtext.Sanitizer, logger *zap.Logger) *PostService {
	return &PostService{
		docs:      docs,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// BySlug returns the published document with the slug and a sanitized body.
func (s *PostService) BySlug(ctx context.Context, collection domain.Collection, slug string) (*domain.ContentItem, error) {
	item, err := s.docs.FetchBySlug(ctx, collection, slug)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnsupportedCollection):
		return nil, err
	default:
		s.logger.Error("document fetch failed",
			zap.String("collection", string(collection)),
			zap.String("slug", slug),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	item.Body = s.sanitizer.Sanitize(item.Body)

	return item, nil
}
