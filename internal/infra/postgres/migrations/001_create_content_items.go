package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createContentItemsTable creates the mirror table keyed by source and external id.
func createContentItemsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_content_items",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS content_items (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					source VARCHAR(50) NOT NULL,
					external_id VARCHAR(200) NOT NULL,
					collection VARCHAR(20) NOT NULL,
					slug VARCHAR(300) NOT NULL,

					title VARCHAR(500) NOT NULL,
					excerpt TEXT,
					published_at TIMESTAMPTZ,
					categories TEXT[],
					tags TEXT[],
					featured BOOLEAN NOT NULL DEFAULT FALSE,
					rating DOUBLE PRECISION,
					price_type VARCHAR(20),

					author VARCHAR(200),
					image_url TEXT,
					reading_time INTEGER DEFAULT 0,
					body TEXT,
					payload JSONB NOT NULL DEFAULT '{}'::jsonb,

					created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_content_items_source_external UNIQUE (source, external_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_content_items_collection_published ON content_items(collection, published_at DESC);",
				"CREATE INDEX IF NOT EXISTS idx_content_items_slug ON content_items(collection, slug);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS content_items;").Error
		},
	}
}
