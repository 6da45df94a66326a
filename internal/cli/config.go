package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/bookseed/internal/bookdb"
	"github.com/mesh-intelligence/bookseed/internal/logging"
	"github.com/mesh-intelligence/bookseed/internal/paths"
	"github.com/mesh-intelligence/bookseed/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "BOOKSEED"
)

// Config keys. Nested keys use dots; their env names use underscores, so
// log.level is read from BOOKSEED_LOG_LEVEL.
const (
	keyDriver           = "driver"
	keyURL              = "url"
	keyUser             = "user"
	keyPassword         = "password"
	keySchema           = "schema"
	keyPublisher        = "publisher"
	keyStatementTimeout = "statement_timeout"
	keyLogLevel         = "log.level"
	keyLogFormat        = "log.format"
	keyColor            = "color"
)

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"driver":            keyDriver,
	"url":               keyURL,
	"user":              keyUser,
	"password":          keyPassword,
	"schema":            keySchema,
	"publisher":         keyPublisher,
	"statement-timeout": keyStatementTimeout,
	"log-level":         keyLogLevel,
	"log-format":        keyLogFormat,
	"color":             keyColor,
}

// defaultConfig holds the values used when no source sets a key. The
// sqlite url is left empty and resolved to the data directory.
var defaultConfig = types.Config{
	Driver:    types.DriverSQLite,
	Schema:    types.DefaultSchema,
	Publisher: types.DefaultPublisher,
	Color:     "auto",
	Log:       types.LogConfig{Level: "info", Format: "text"},
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		// Lookup cannot fail: every name is registered by rootCmd.
		_ = a.v.BindPFlag(key, fs.Lookup(name))
	}
}

// loadConfig resolves the config directory, writes a default config.yaml
// on first run, and merges flags, BOOKSEED_* env, the file, and defaults
// into a.config. It also builds the run's logger.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return fmt.Errorf("ensure default config: %w", err)
	}

	v := a.v
	v.SetDefault(keyDriver, defaultConfig.Driver)
	v.SetDefault(keyURL, "")
	v.SetDefault(keyUser, "")
	v.SetDefault(keyPassword, "")
	v.SetDefault(keySchema, defaultConfig.Schema)
	v.SetDefault(keyPublisher, defaultConfig.Publisher)
	v.SetDefault(keyStatementTimeout, "0s")
	v.SetDefault(keyLogLevel, defaultConfig.Log.Level)
	v.SetDefault(keyLogFormat, defaultConfig.Log.Format)
	v.SetDefault(keyColor, defaultConfig.Color)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	a.configPath = v.ConfigFileUsed()

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if cfg.Driver == types.DriverSQLite && cfg.URL != bookdb.MemoryURL {
		if cfg.URL, err = paths.ResolveDataDir(cfg.URL); err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.config = cfg

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, a.stderr)
	if err != nil {
		return err
	}
	a.runID = logging.NewRunID()
	a.log = logging.WithRun(logger, a.runID)
	a.log.Debug("config loaded",
		"command", cmd.Name(),
		"config_file", a.configPath,
		"driver", cfg.Driver,
		"schema", cfg.Schema,
	)
	return nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&defaultConfig)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# bookseed configuration. Flags and BOOKSEED_* variables override these values.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
