/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/internal/iofs"
	"github.com/gnames/gnverse/internal/iologger"
	app "github.com/gnames/gnverse/pkg"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
// A new instance is created on every call, which keeps tests
// independent.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnverse",
		Short:   "GNverse reads, searches and maintains a multi-translation Bible store",
		Long: `GNverse keeps a corpus of Bible translations in a verse store
and serves passages out of it.

Store lifecycle:
  - create:   Create the verse store schema
  - migrate:  Bring the schema up to date
  - populate: Import a corpus directory
  - optimize: Build indexes and refresh statistics

Reading:
  - lookup:   Resolve a free-form query ("Gen 1:3-5 kjv niv", "light")
  - search:   Find verses containing all keywords
  - daily:    Show the reading of the day
  - versions: List translations of the store

The store is an embedded SQLite file by default, PostgreSQL is
selected with 'database.driver: postgres'.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNVERSE_*)
  3. ~/.config/gnverse/config.yaml
  4. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnverse version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnverse")
	addStoreFlags(rootCmd)

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getPopulateCmd(),
		getOptimizeCmd(),
		getLookupCmd(),
		getSearchCmd(),
		getDailyCmd(),
		getVersionsCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Flags win over config file and environment
	cfg.Update(storeFlagOptions(cmd))

	if cfg.Database.Driver == "sqlite" {
		cfg.Update([]config.Option{config.OptDatabasePath(cfg.SQLitePath())})
	}

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// Creates log file in the proper location now that we know HomeDir.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNVERSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "GNVERSE_DATABASE_DRIVER")
	v.BindEnv("database.path", "GNVERSE_DATABASE_PATH")
	v.BindEnv("database.host", "GNVERSE_DATABASE_HOST")
	v.BindEnv("database.port", "GNVERSE_DATABASE_PORT")
	v.BindEnv("database.user", "GNVERSE_DATABASE_USER")
	v.BindEnv("database.password", "GNVERSE_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNVERSE_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNVERSE_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "GNVERSE_DATABASE_BATCH_SIZE")

	// Populate configuration
	v.BindEnv("populate.corpus_dir", "GNVERSE_POPULATE_CORPUS_DIR")

	// Reader configuration
	v.BindEnv("reader.page_size", "GNVERSE_READER_PAGE_SIZE")
	v.BindEnv("reader.default_version", "GNVERSE_READER_DEFAULT_VERSION")
	v.BindEnv("reader.context_verses", "GNVERSE_READER_CONTEXT_VERSES")
	v.BindEnv("reader.max_versions", "GNVERSE_READER_MAX_VERSIONS")

	// Cache configuration
	v.BindEnv("cache.redis_addr", "GNVERSE_CACHE_REDIS_ADDR")
	v.BindEnv("cache.ttl_sec", "GNVERSE_CACHE_TTL_SEC")

	// Log configuration
	v.BindEnv("log.level", "GNVERSE_LOG_LEVEL")
	v.BindEnv("log.format", "GNVERSE_LOG_FORMAT")
	v.BindEnv("log.destination", "GNVERSE_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNVERSE_JOBS_NUMBER")

	v.AutomaticEnv()
}
