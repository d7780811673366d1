package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"promptlab-content-service/internal/domain"
)

// Name is the source identifier reported by the mirror.
const Name = "mirror"

// upsertColumns are rewritten when an item already exists.
var upsertColumns = []string{
	"collection", "slug", "title", "excerpt", "published_at", "categories", "tags",
	"featured", "rating", "price_type", "author", "image_url", "reading_time",
	"body", "payload", "updated_at",
}

// Repository implements domain.MirrorRepository using PostgreSQL.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new PostgreSQL mirror repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Name returns the source identifier.
func (r *Repository) Name() string {
	return Name
}

// FetchPublished returns every mirrored item of the facet visible now, newest first.
// Bodies are not loaded.
func (r *Repository) FetchPublished(ctx context.Context, facet domain.Facet) ([]domain.ContentItem, error) {
	query := r.published(ctx, facet.Collection)
	if facet.Category != "" {
		query = query.Where("categories @> ?", pq.StringArray{facet.Category})
	}

	var models []ContentItemModel
	err := query.
		Omit("body").
		Order("published_at DESC NULLS LAST").
		Order("external_id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("fetching mirrored items: %w", err)
	}

	items := make([]domain.ContentItem, len(models))
	for i := range models {
		items[i] = models[i].ToDomain()
	}

	return items, nil
}

// FetchBySlug returns the most recent visible item with the slug.
func (r *Repository) FetchBySlug(ctx context.Context, collection domain.Collection, slug string) (*domain.ContentItem, error) {
	var model ContentItemModel
	err := r.published(ctx, collection).
		Where("slug = ?", slug).
		Order("published_at DESC NULLS LAST").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching mirrored item %q: %w", slug, err)
	}

	item := model.ToDomain()

	return &item, nil
}

// HealthCheck verifies the database connection is alive.
func (r *Repository) HealthCheck(ctx context.Context) error {
	return Ping(ctx, r.db)
}

// ReplaceCollection makes the mirror of one source collection equal to items:
// present items are upserted and rows missing from items are deleted, in one
// transaction. It returns the number of rows upserted.
func (r *Repository) ReplaceCollection(ctx context.Context, source string, collection domain.Collection, items []domain.ContentItem) (int, error) {
	models := make([]*ContentItemModel, 0, len(items))
	keep := make([]string, 0, len(items))
	now := r.now().UTC()

	for i := range items {
		m, err := FromDomain(source, &items[i])
		if err != nil {
			return 0, fmt.Errorf("encoding item %q: %w", items[i].ID, err)
		}
		m.Collection = string(collection)
		m.UpdatedAt = now
		models = append(models, m)
		keep = append(keep, m.ExternalID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(models) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "source"}, {Name: "external_id"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			}).CreateInBatches(models, 100).Error
			if err != nil {
				return fmt.Errorf("upserting items: %w", err)
			}
		}

		prune := tx.Where("source = ? AND collection = ?", source, string(collection))
		if len(keep) > 0 {
			prune = prune.Where("external_id NOT IN ?", keep)
		}
		if err := prune.Delete(&ContentItemModel{}).Error; err != nil {
			return fmt.Errorf("pruning items: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replacing %s/%s: %w", source, collection, err)
	}

	return len(models), nil
}

// Count returns the number of mirrored items, optionally for one source.
func (r *Repository) Count(ctx context.Context, source string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&ContentItemModel{})
	if source != "" {
		query = query.Where("source = ?", source)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting mirrored items: %w", err)
	}

	return count, nil
}

func (r *Repository) published(ctx context.Context, collection domain.Collection) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&ContentItemModel{}).
		Where("collection = ?", string(collection)).
		Where("published_at IS NULL OR published_at <= ?", r.now().UTC())
}
