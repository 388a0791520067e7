package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/gnames/gnverse/pkg/errcode"
)

// ConnectionError is returned when database connection fails.
type ConnectionError struct {
	error
	gnlib.MessageBase
}

// NewConnectionError creates a connection error with user-friendly message.
func NewConnectionError(host string, port int, database, user string, cause error) error {
	userBase := gnlib.NewMessage(
		`<title>Database Connection Failed</title>

<warning>Could not connect to PostgreSQL database.</warning>

<em>Possible causes:</em>
  • PostgreSQL is not running
  • Database configuration is incorrect
  • Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Check your configuration file:
     <em>~/.config/gnverse/config.yaml</em>

  4. Use the embedded store instead:
     <em>gnverse --driver sqlite ...</em>

<em>Connection settings:</em>
     Host: %s
     Port: %d
     Database: %s
     User: %s
`,
		[]any{
			host, port,
			host, user,
			host, port, database, user,
		},
	)

	return ConnectionError{
		error:       fmt.Errorf("failed to connect to %s:%d/%s: %w", host, port, database, cause),
		MessageBase: userBase,
	}
}

// NewSQLiteOpenError creates an error for a SQLite file that cannot be
// opened.
func NewSQLiteOpenError(path string, cause error) error {
	userBase := gnlib.NewMessage(
		`<title>Cannot Open Verse Store</title>

<warning>Could not open SQLite database <em>%s</em>.</warning>

<em>How to fix:</em>
  1. Check that the directory exists and is writable
  2. Set another file with <em>database.path</em> in
     <em>~/.config/gnverse/config.yaml</em>
`,
		[]any{path},
	)

	return ConnectionError{
		error:       fmt.Errorf("failed to open sqlite %s: %w", path, cause),
		MessageBase: userBase,
	}
}

// EmptyDatabaseError is returned when database has no tables.
type EmptyDatabaseError struct {
	error
	gnlib.MessageBase
}

// NewEmptyDatabaseError creates an error for unpopulated database.
func NewEmptyDatabaseError(database string) error {
	userBase := gnlib.NewMessage(
		`<title>Verse Store Is Not Ready</title>

<warning>The database appears to be empty or not populated.</warning>

<em>Required steps:</em>
  1. Create the database schema:
     <em>gnverse create</em>

  2. Populate the database with a corpus:
     <em>gnverse populate --corpus-dir DIR</em>

  3. Then run optimization:
     <em>gnverse optimize</em>

<em>Current database state:</em>
  Database: %s
  Status: No tables found
`,
		[]any{database},
	)

	return EmptyDatabaseError{
		error:       fmt.Errorf("database has no tables - run 'gnverse create' and 'gnverse populate' first"),
		MessageBase: userBase,
	}
}

// NotConnectedError is returned when an operation needs an open store.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// UnknownDriverError is returned for a driver other than sqlite or
// postgres.
func UnknownDriverError(driver string) error {
	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  "Unknown database driver <em>%s</em>",
		Vars: []any{driver},
		Err:  fmt.Errorf("unknown database driver %q", driver),
	}
}

func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: table check %s: %w", fn.Name(), table, err),
	}
}

func TableCheckError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Could not verify database state",
		Err:  fmt.Errorf("from %s: failed to check database tables: %w", fn.Name(), err),
	}
}

func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Cannot list database tables",
		Err:  fmt.Errorf("cannot list tables: %w", err),
	}
}

func ScanTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  "Cannot read table names",
		Err:  fmt.Errorf("cannot scan table name: %w", err),
	}
}

func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  "Cannot drop table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("cannot drop table %s: %w", table, err),
	}
}
