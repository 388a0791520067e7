package iologger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnverse/internal/iologger"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "debug", Destination: "file"}
	require.NoError(t, iologger.Init(dir, cfg))

	slog.Debug("populating", "verses", 3)
	bs, err := os.ReadFile(iologger.LogFile(dir))
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"msg":"populating"`)
	assert.Contains(t, string(bs), `"verses":3`)
}

func TestInitLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "text", Level: "warn", Destination: "file"}
	require.NoError(t, iologger.Init(dir, cfg))

	slog.Info("hidden")
	slog.Warn("shown")
	bs, err := os.ReadFile(iologger.LogFile(dir))
	require.NoError(t, err)
	assert.NotContains(t, string(bs), "hidden")
	assert.Contains(t, string(bs), "msg=shown")
}

func TestInitBadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Destination: "file"}
	assert.Error(t, iologger.Init(dir, cfg))
}
