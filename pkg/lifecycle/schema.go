// Package lifecycle defines contracts of the verse store lifecycle:
// schema creation, corpus loading, optimization and catalog loading.
package lifecycle

import (
	"context"

	"github.com/gnames/gnverse/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// On PostgreSQL it uses GORM AutoMigrate, on SQLite the DDL generated
// from schema models. Schema management is idempotent - safe to run
// multiple times.
type SchemaManager interface {
	// Create creates the initial database schema.
	// Existing tables are kept, callers drop them beforehand when the
	// user asks to start over.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context, cfg *config.Config) error
}
