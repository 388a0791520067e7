package iodb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// sqliteOperator implements db.Operator with an embedded SQLite file.
type sqliteOperator struct {
	db *sql.DB
}

// NewSQLiteOperator creates a new SQLite operator (without
// connecting).
func NewSQLiteOperator() db.Operator {
	return &sqliteOperator{}
}

// Connect opens the SQLite file at cfg.Path. The ":memory:" path keeps
// the store in memory, it lives as long as the operator.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	if cfg.Path == "" {
		return NewSQLiteOpenError(cfg.Path, errors.New("empty path"))
	}
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(0)&_pragma=busy_timeout(5000)",
		cfg.Path,
	)
	if cfg.Path == ":memory:" {
		dsn = "file::memory:"
	}

	// Open database
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return NewSQLiteOpenError(cfg.Path, err)
	}
	// one connection keeps in-memory databases alive and serializes
	// writers
	sdb.SetMaxOpenConns(1)

	// Verify connection
	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		return NewSQLiteOpenError(cfg.Path, err)
	}
	s.db = sdb
	return nil
}

// Close releases the database file.
func (s *sqliteOperator) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the database handle.
func (s *sqliteOperator) DB() *sql.DB {
	return s.db
}

// Pool returns nil, SQLite has no pgx pool.
func (s *sqliteOperator) Pool() *pgxpool.Pool {
	return nil
}

// Dialect returns db.SQLite.
func (s *sqliteOperator) Dialect() db.Dialect {
	return db.SQLite
}

// TableExists checks if a table exists in the database.
func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table' AND name = ?
		)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return exists, nil
}

// HasTables checks if the database has any user tables.
func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		)
	`
	var hasTables bool
	err := s.db.QueryRowContext(ctx, query).Scan(&hasTables)
	if err != nil {
		return false, TableCheckError(err)
	}
	return hasTables, nil
}

// DropAllTables drops all user tables.
func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	if s.db == nil {
		return NotConnectedError()
	}

	// Get all table names
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	`)
	if err != nil {
		return QueryTablesError(err)
	}

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return ScanTableError(err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return ScanTableError(err)
	}
	rows.Close()

	// Drop each table
	for _, table := range tables {
		q := fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}
