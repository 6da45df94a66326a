package types

import (
	"errors"
	"strings"
	"time"
)

// Config holds the connection and output settings for a run. It is loaded
// once at startup and passed by value.
type Config struct {
	Driver           string        `mapstructure:"driver" yaml:"driver"`
	URL              string        `mapstructure:"url" yaml:"url"`
	User             string        `mapstructure:"user" yaml:"user,omitempty"`
	Password         string        `mapstructure:"password" yaml:"password,omitempty"`
	Schema           string        `mapstructure:"schema" yaml:"schema"`
	Publisher        string        `mapstructure:"publisher" yaml:"publisher"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout" yaml:"statement_timeout,omitempty"`
	Color            string        `mapstructure:"color" yaml:"color"`
	Log              LogConfig     `mapstructure:"log" yaml:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Supported driver names, as registered with database/sql.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// Defaults applied by the CLI.
const (
	DefaultSchema    = "books"
	DefaultPublisher = "Pearson"
)

// Config validation errors.
var (
	ErrDriverEmpty      = errors.New("driver must not be empty")
	ErrDriverUnknown    = errors.New("unknown driver")
	ErrURLEmpty         = errors.New("url must not be empty")
	ErrSchemaEmpty      = errors.New("schema must not be empty")
	ErrTimeoutNegative  = errors.New("statement timeout must not be negative")
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrLogFormatUnknown = errors.New("unknown log format")
	ErrColorModeUnknown = errors.New("unknown color mode")
)

var knownDrivers = map[string]bool{
	DriverSQLite: true,
	DriverPgx:    true,
}

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var knownLogFormats = map[string]bool{
	"":     true,
	"text": true,
	"json": true,
}

var knownColorModes = map[string]bool{
	"":       true,
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrDriverEmpty
	}
	if !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	if c.URL == "" {
		return ErrURLEmpty
	}
	if c.Schema == "" {
		return ErrSchemaEmpty
	}
	if c.StatementTimeout < 0 {
		return ErrTimeoutNegative
	}
	if !knownLogLevels[strings.ToLower(c.Log.Level)] {
		return ErrLogLevelUnknown
	}
	if !knownLogFormats[strings.ToLower(c.Log.Format)] {
		return ErrLogFormatUnknown
	}
	if !knownColorModes[c.Color] {
		return ErrColorModeUnknown
	}
	return nil
}

// Redacted returns a copy with the password masked, for display.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}
