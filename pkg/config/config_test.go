package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/gnverse/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnverse"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gnverse"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gnverse", "logs"),
		},
		{
			msg: "db file",
			fn:  config.DBFilePath,
			res: filepath.Join(tempHome, ".local", "share", "gnverse", "gnverse.db"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "gnverse", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 10_000, cfg.Database.BatchSize)

		assert.Equal(t, 100, cfg.Reader.PageSize)
		assert.Equal(t, "kjav", cfg.Reader.DefaultVersion)
		assert.Equal(t, 5, cfg.Reader.ContextVerses)
		assert.Equal(t, 2, cfg.Reader.MaxVersions)

		assert.Empty(t, cfg.Cache.RedisAddr)
		assert.Equal(t, 3600, cfg.Cache.TTLSec)

		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestOptionDatabaseDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets postgres", "postgres", "postgres"},
		{"normalizes case", "  SQLite ", "sqlite"},
		{"ignores unknown driver", "mysql", "sqlite"},
		{"ignores empty", "", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseDriver(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionReader(t *testing.T) {
	t.Run("page size must be positive", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptReaderPageSize(0)})
		assert.Equal(t, 100, cfg.Reader.PageSize)
		cfg.Update([]config.Option{config.OptReaderPageSize(20)})
		assert.Equal(t, 20, cfg.Reader.PageSize)
	})

	t.Run("context verses accepts zero", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptReaderContextVerses(0)})
		assert.Equal(t, 0, cfg.Reader.ContextVerses)
		cfg.Update([]config.Option{config.OptReaderContextVerses(-1)})
		assert.Equal(t, 0, cfg.Reader.ContextVerses)
	})

	t.Run("default version is lowercased", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptReaderDefaultVersion(" KJV ")})
		assert.Equal(t, "kjv", cfg.Reader.DefaultVersion)
	})
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets debug", "debug", "debug"},
		{"normalizes case", "WARN", "warn"},
		{"ignores invalid", "verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptJobsNumber(2),
			config.OptJobsNumber(6),
			config.OptCacheRedisAddr("localhost:6379"),
		})
		assert.Equal(t, 6, cfg.JobsNumber)
		assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptDatabaseDriver("postgres"),
			config.OptDatabaseHost("db.local"),
			config.OptDatabasePath("/tmp/bible.db"),
			config.OptPopulateCorpusDir("/data/corpus"),
			config.OptReaderPageSize(30),
			config.OptReaderDefaultVersion("kjv"),
			config.OptCacheTTLSec(60),
			config.OptLogFormat("text"),
		})

		cfg := config.New()
		cfg.Update(original.ToOptions())

		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, "/tmp/bible.db", cfg.Database.Path)
		assert.Equal(t, "/data/corpus", cfg.Populate.CorpusDir)
		assert.Equal(t, 30, cfg.Reader.PageSize)
		assert.Equal(t, "kjv", cfg.Reader.DefaultVersion)
		assert.Equal(t, 60, cfg.Cache.TTLSec)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/home/test")})

		res := config.New()
		res.Update(cfg.ToOptions())
		assert.Empty(t, res.HomeDir)
	})
}

func TestSQLitePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/test")})
	assert.Equal(t,
		filepath.Join("/home/test", ".local", "share", "gnverse", "gnverse.db"),
		cfg.SQLitePath())

	cfg.Update([]config.Option{config.OptDatabasePath(":memory:")})
	assert.Equal(t, ":memory:", cfg.SQLitePath())
}
