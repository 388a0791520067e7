// Package iotesting provides shared test utilities: configs for
// integration tests, an in-memory verse store and a small corpus.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gnames/gnverse/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnverse_test"
)

// GetTestConfig returns a configuration for PostgreSQL integration tests.
// Connection settings come from defaults, overridden by GNVERSE_DATABASE_*
// environment variables. The database name is always TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()
	opts := []config.Option{config.OptDatabaseDriver("postgres")}
	if v := os.Getenv("GNVERSE_DATABASE_HOST"); v != "" {
		opts = append(opts, config.OptDatabaseHost(v))
	}
	if v := os.Getenv("GNVERSE_DATABASE_USER"); v != "" {
		opts = append(opts, config.OptDatabaseUser(v))
	}
	if v := os.Getenv("GNVERSE_DATABASE_PASSWORD"); v != "" {
		opts = append(opts, config.OptDatabasePassword(v))
	}
	if v := os.Getenv("GNVERSE_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	cfg.Update(opts)

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SQLiteConfig returns a config with an in-memory SQLite store and a
// temporary home directory.
func SQLiteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabasePath(":memory:"),
		config.OptHomeDir(t.TempDir()),
		config.OptJobsNumber(2),
		config.OptDatabaseBatchSize(7),
	})
	return cfg
}

// SQLiteFileConfig is like SQLiteConfig, but keeps the store in a file
// of a temporary directory.
func SQLiteFileConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := SQLiteConfig(t)
	cfg.Update([]config.Option{
		config.OptDatabasePath(filepath.Join(t.TempDir(), "gnverse.db")),
	})
	return cfg
}
