// Package config provides configuration management for gnverse.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database,
//     ssl_mode, batch_size
//   - Reader: page_size, default_version, context_verses, max_versions
//   - Cache: redis_addr, ttl_sec
//   - Populate: corpus_dir
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNVERSE_ prefix with underscores for nesting:
//
//	GNVERSE_DATABASE_DRIVER=postgres
//	GNVERSE_DATABASE_HOST=localhost
//	GNVERSE_READER_PAGE_SIZE=100
//	GNVERSE_CACHE_REDIS_ADDR=localhost:6379
//	GNVERSE_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete gnverse configuration.
type Config struct {
	// Database contains verse store connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Populate contains settings specific to the populate command.
	Populate PopulateConfig `mapstructure:"populate" yaml:"populate"`

	// Reader contains settings used for serving verses.
	Reader ReaderConfig `mapstructure:"reader" yaml:"reader"`

	// Cache contains settings of the optional search page cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains verse store connection parameters.
type DatabaseConfig struct {
	// Driver selects the verse store: "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. Empty value means the default
	// location under the data directory (see DBFilePath).
	// ":memory:" keeps the whole corpus in memory.
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of rows inserted per batch during
	// populate.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// PopulateConfig contains settings specific to the populate command.
type PopulateConfig struct {
	// CorpusDir is a directory with versions.yaml, books.yaml, daily.yaml
	// and verses_*.tsv (optionally xz-compressed) files.
	CorpusDir string `mapstructure:"corpus_dir" yaml:"corpus_dir"`
}

// ReaderConfig contains settings for serving verse pages.
type ReaderConfig struct {
	// PageSize is the number of verses in one page. Reading plans are
	// never paginated.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// DefaultVersion is the translation code used when nothing else
	// determines the version.
	DefaultVersion string `mapstructure:"default_version" yaml:"default_version"`

	// ContextVerses is the number of verses shown around an addressed
	// verse range.
	ContextVerses int `mapstructure:"context_verses" yaml:"context_verses"`

	// MaxVersions limits how many translations are shown side by side.
	MaxVersions int `mapstructure:"max_versions" yaml:"max_versions"`
}

// CacheConfig contains settings of Redis cache for search pages.
type CacheConfig struct {
	// RedisAddr is host:port of a Redis server. Empty value disables
	// caching.
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`

	// TTLSec is how long a cached page lives, in seconds.
	TTLSec int `mapstructure:"ttl_sec" yaml:"ttl_sec"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    "sqlite",
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnverse",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Reader: ReaderConfig{
			PageSize:       100,
			DefaultVersion: "kjav",
			ContextVerses:  5,
			MaxVersions:    2,
		},
		Cache: CacheConfig{
			TTLSec: 3600,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
