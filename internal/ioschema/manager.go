// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate on PostgreSQL and runs generated
// DDL on SQLite.
package ioschema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/lifecycle"
	"github.com/gnames/gnverse/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	if m.operator.Dialect() == db.Postgres {
		if err := m.autoMigrate(ctx); err != nil {
			return CreateSchemaError(err)
		}
		return nil
	}

	sdb := m.operator.DB()
	if sdb == nil {
		return NotConnectedError()
	}
	tx, err := sdb.BeginTx(ctx, nil)
	if err != nil {
		return CreateSchemaError(err)
	}
	defer tx.Rollback()

	for _, model := range schema.AllModels() {
		slog.Debug("Creating table", "table", model.TableName())
		if _, err := tx.ExecContext(ctx, model.TableDDL()); err != nil {
			return CreateSchemaError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return CreateSchemaError(err)
	}
	return nil
}

// Migrate updates the database schema to the latest version.
// On SQLite missing tables are created and missing columns are
// added, existing columns are never changed.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	if m.operator.Dialect() == db.Postgres {
		if err := m.autoMigrate(ctx); err != nil {
			return MigrateSchemaError(err)
		}
		return nil
	}

	sdb := m.operator.DB()
	if sdb == nil {
		return NotConnectedError()
	}
	for _, model := range schema.AllModels() {
		if _, err := sdb.ExecContext(ctx, model.TableDDL()); err != nil {
			return MigrateSchemaError(err)
		}
		if err := addMissingColumns(ctx, sdb, model); err != nil {
			return err
		}
	}
	return nil
}

func (m *manager) autoMigrate(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sdb := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sdb}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	return schema.Migrate(gormDB.WithContext(ctx))
}

func addMissingColumns(
	ctx context.Context,
	sdb *sql.DB,
	model schema.DDLGenerator,
) error {
	table := model.TableName()
	existing, err := tableColumns(ctx, sdb, table)
	if err != nil {
		return MigrateSchemaError(err)
	}

	for _, col := range schema.ColumnDefs(model) {
		if existing[col.Name] {
			continue
		}
		slog.Info("Adding column", "table", table, "column", col.Name)
		q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			table, col.Name, col.AddableDDL())
		if _, err := sdb.ExecContext(ctx, q); err != nil {
			return AddColumnError(table, col.Name, err)
		}
	}
	return nil
}

func tableColumns(
	ctx context.Context,
	sdb *sql.DB,
	table string,
) (map[string]bool, error) {
	rows, err := sdb.QueryContext(ctx,
		"SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		res[name] = true
	}
	return res, rows.Err()
}
