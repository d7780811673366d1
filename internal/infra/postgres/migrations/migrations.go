// Package migrations provides the mirror schema migrations using gormigrate.
package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrations returns all database migrations in order.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createContentItemsTable(),
		addFacetIndexes(),
	}
}

// Run executes all pending migrations.
func Run(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, Migrations()).Migrate()
}

// MigrateTo executes pending migrations up to and including id.
func MigrateTo(db *gorm.DB, id string) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, Migrations()).MigrateTo(id)
}

// Rollback rolls back the last applied migration.
func Rollback(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, Migrations()).RollbackLast()
}
