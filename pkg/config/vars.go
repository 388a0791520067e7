package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnverse"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnverse by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnverse by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory path for the SQLite verse store.
// Returns ~/.local/share/gnverse by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnverse/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnverse/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DBFilePath returns the SQLite file used when Database.Path is empty.
// Returns ~/.local/share/gnverse/gnverse.db by default.
func DBFilePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), AppName+".db")
}

// SQLitePath returns the SQLite file from the config, falling back to
// DBFilePath.
func (c *Config) SQLitePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return DBFilePath(c.HomeDir)
}
