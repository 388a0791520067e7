package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	dirs := []string{
		filepath.Join(tmpDir, ".config", "gnverse"),
		filepath.Join(tmpDir, ".cache", "gnverse"),
		filepath.Join(tmpDir, ".local", "share", "gnverse"),
		filepath.Join(tmpDir, ".local", "share", "gnverse", "logs"),
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}

// TestEnsureDirs_Idempotent verifies multiple calls work.
func TestEnsureDirs_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	for range 3 {
		require.NoError(t, EnsureDirs(tmpDir))
	}
}

func TestTouchDir_CreatesNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "test", "subdir")

	err := touchDir(newDir)
	require.NoError(t, err)

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestEnsureConfigFile_ContentCorrect verifies config file
// content matches embedded template.
func TestEnsureConfigFile_ContentCorrect(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "gnverse", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))
}

// TestEnsureConfigFile_Idempotent verifies existing file
// is not overwritten.
func TestEnsureConfigFile_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "gnverse", "config.yaml")
	customContent := "# Custom config\ndatabase:\n  driver: postgres"
	err := os.WriteFile(configPath, []byte(customContent), 0644)
	require.NoError(t, err)

	require.NoError(t, EnsureConfigFile(tmpDir))
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content))
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "books.yaml")

	res, err := ReadFile(path, BooksYAML)
	require.NoError(t, err)
	assert.Equal(t, BooksYAML, res)

	_, err = ReadFile(path, nil)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("- code: Gen\n"), 0644))
	res, err = ReadFile(path, BooksYAML)
	require.NoError(t, err)
	assert.Equal(t, "- code: Gen\n", string(res))
}

func TestEmbeddedDefinitions(t *testing.T) {
	var books []map[string]any
	require.NoError(t, yaml.Unmarshal(BooksYAML, &books))
	assert.Len(t, books, 66)
	assert.Equal(t, "Gen", books[0]["code"])
	assert.Equal(t, "Rev", books[65]["code"])

	var versions struct {
		Default  string           `yaml:"default"`
		Versions []map[string]any `yaml:"versions"`
	}
	require.NoError(t, yaml.Unmarshal(VersionsYAML, &versions))
	assert.Equal(t, "kjav", versions.Default)
	assert.Len(t, versions.Versions, 16)

	var cfg map[string]any
	assert.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &cfg))
}
