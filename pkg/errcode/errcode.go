// Package errcode keeps error codes used by gn.Error and the sentinel
// errors of the reference resolution taxonomy.
package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBUnknownDriverError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Catalog errors
	CatalogLoadError
	CatalogInvariantError

	// Populate errors
	PopulateCorpusDirError
	PopulateDefinitionsError
	PopulateVerseFileError
	PopulateVerseLineError
	PopulateBoundsError
	PopulateDailyError
	PopulateInsertError

	// Optimizer errors
	OptimizerIndexError
	OptimizerMaxGapError
	OptimizerVacuumError
	OptimizerMetaError

	// Reader errors
	ReaderStoreError
	ReaderNotFoundError
	ReaderCacheError
)

// Taxonomy of failures shared by the pure packages. Resolution failures
// wrap ErrNotFound, catalog consistency failures wrap
// ErrInvariantViolation, failed verse store queries wrap
// ErrStoreUnavailable.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrStoreUnavailable   = errors.New("verse store unavailable")
)
