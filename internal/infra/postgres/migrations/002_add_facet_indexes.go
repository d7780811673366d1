package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addFacetIndexes adds GIN indexes so category containment filters
// (categories @> ARRAY[...]) and tag lookups avoid sequential scans.
func addFacetIndexes() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_add_facet_indexes",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_content_items_categories
				ON content_items USING GIN (categories)
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_content_items_tags
				ON content_items USING GIN (tags)
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec(`DROP INDEX IF EXISTS idx_content_items_tags`).Error; err != nil {
				return err
			}

			return tx.Exec(`DROP INDEX IF EXISTS idx_content_items_categories`).Error
		},
	}
}
