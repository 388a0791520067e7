// Package db defines the contract of the verse store connection.
package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/gnames/gnverse/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dialect is the SQL flavor of a store.
type Dialect int

const (
	// SQLite is the embedded store driven by modernc.org/sqlite.
	SQLite Dialect = iota
	// Postgres is a PostgreSQL server reached through pgx.
	Postgres
)

// String returns the driver name of the dialect.
func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind converts '?' placeholders into '$n' ones for PostgreSQL.
// Queries must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

// Operator manages the connection to the verse store. It exposes
// *sql.DB for portable queries, and pgxpool.Pool on PostgreSQL for
// CopyFrom bulk loads and GORM.
type Operator interface {
	// Connect opens the store.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close releases the store.
	Close() error

	// DB returns a database/sql handle. It is nil before Connect.
	DB() *sql.DB

	// Pool returns the pgx pool of a PostgreSQL store and nil for SQLite.
	Pool() *pgxpool.Pool

	// Dialect tells which SQL flavor the store speaks.
	Dialect() Dialect

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
