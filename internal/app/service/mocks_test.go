package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"promptlab-content-service/internal/domain"
)

// --- Mocks ---

type MockBackend struct {
	mock.Mock
	name string
}

func (m *MockBackend) Name() string {
	return m.name
}

func (m *MockBackend) FetchPublished(ctx context.Context, facet domain.Facet) ([]domain.ContentItem, error) {
	args := m.Called(ctx, facet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContentItem), args.Error(1)
}

func (m *MockBackend) FetchBySlug(ctx context.Context, collection domain.Collection, slug string) (*domain.ContentItem, error) {
	args := m.Called(ctx, collection, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *MockBackend) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Categories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockMirror struct {
	MockBackend
}

func (m *MockMirror) ReplaceCollection(ctx context.Context, source string, collection domain.Collection, items []domain.ContentItem) (int, error) {
	args := m.Called(ctx, source, collection, items)
	return args.Int(0), args.Error(1)
}

func (m *MockMirror) Count(ctx context.Context, source string) (int64, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubscriber struct {
	mock.Mock
}

func (m *MockSubscriber) Name() string {
	return "buttondown"
}

func (m *MockSubscriber) Subscribe(ctx context.Context, sub domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
