package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/errcode"
)

// NotConnectedError is returned when the schema is changed before the
// store is opened.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Schema operation attempted without an open verse store",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError is returned when GORM cannot use the pgx pool.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg: `Cannot open PostgreSQL verse store with GORM

<em>How to fix:</em>
  1. Check PostgreSQL settings in <em>~/.config/gnverse/config.yaml</em>
  2. Or use the embedded store: <em>gnverse -D sqlite create</em>`,
		Err: fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError is returned when tables of the verse store cannot
// be created.
func CreateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg: `Cannot create verse store schema

<em>Possible causes:</em>
  - The SQLite file or its directory is not writable
  - PostgreSQL user has no CREATE permission

<em>How to fix:</em>
  1. Run <em>gnverse create --force</em> to start from scratch
  2. See the log in <em>~/.local/share/gnverse/logs</em>`,
		Err: fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError is returned when the schema cannot be brought up
// to date.
func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg: `Cannot migrate verse store schema

<em>How to fix:</em>
  1. Recreate the store: <em>gnverse create --force</em>
  2. Import the corpus again: <em>gnverse populate</em>`,
		Err: fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// AddColumnError is returned when a new column cannot be added to a
// SQLite table.
func AddColumnError(table, column string, err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot add column <em>%s.%s</em> to the verse store",
		Vars: []any{table, column},
		Err:  fmt.Errorf("failed to add column %s.%s: %w", table, column, err),
	}
}
