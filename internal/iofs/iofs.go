// Package iofs prepares the file system for gnverse and keeps embedded
// default files: the config template and the default book and version
// definitions used when a corpus directory does not provide its own.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/gnverse/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed books.yaml
var BooksYAML []byte

//go:embed versions.yaml
var VersionsYAML []byte

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the embedded config template unless the user
// already has a config file.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ReadFile returns the content of path, or fallback when path does not
// exist. A nil fallback makes a missing file an error.
func ReadFile(path string, fallback []byte) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err == nil {
		return res, nil
	}
	if os.IsNotExist(err) && fallback != nil {
		return fallback, nil
	}
	return nil, ReadFileError(path, err)
}
