// Package config provides configuration management for vacancies.
//
// Configuration is loaded from four sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (VACANCIES_ prefix), including those from an
//     optional .env file
//  3. Config file (.vacancies.yaml)
//  4. Built-in defaults
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/version"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultEnvFile is loaded when present and no --env-file is given.
const DefaultEnvFile = ".env"

// Config represents the global configuration for vacancies.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Sources are the data files used when a command gets no file
	// arguments.
	Sources []string `mapstructure:"sources" json:"sources,omitempty"`

	// Comma is the field delimiter of the data files: a single character
	// or "tab". Empty means ",".
	Comma string `mapstructure:"comma" json:"comma,omitempty"`

	// RequiredVersion is an optional semver constraint the running binary
	// must satisfy (e.g. ">= 0.2").
	RequiredVersion string `mapstructure:"required-version" json:"requiredVersion,omitempty"`

	// Presets are the named filter presets read from the config file.
	Presets map[string]Preset `mapstructure:"-" json:"presets,omitempty"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
		NoColor:   false,
		Quiet:     false,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if _, err := c.Delimiter(); err != nil {
		return err
	}

	for name, p := range c.Presets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}

	return nil
}

// Delimiter returns the field delimiter rune for Comma.
func (c *Config) Delimiter() (rune, error) {
	switch c.Comma {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}

	r := []rune(c.Comma)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character or \"tab\"", c.Comma)
	}

	return r[0], nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	if err := loadEnvFile(cmd); err != nil {
		return nil, err
	}

	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Store the resolved config file path so downstream code can locate it.
	cfg.ConfigFile = v.ConfigFileUsed()

	if cfg.ConfigFile != "" {
		presets, err := LoadPresets(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}

		cfg.Presets = presets
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := version.Check(cfg.RequiredVersion); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", LogLevelInfo)
	v.SetDefault("log-format", LogFormatText)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("sources", []string{})
	v.SetDefault("comma", "")
	v.SetDefault("required-version", "")
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("VACANCIES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// loadEnvFile loads variables from --env-file, or from ./.env when that
// exists. Variables already set in the environment win.
func loadEnvFile(cmd *cobra.Command) error {
	path := ""

	if cmd != nil {
		if f := cmd.Flag("env-file"); f != nil {
			path = f.Value.String()
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("reading env file %q: %w", path, err)
		}

		return nil
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading env file %q: %w", DefaultEnvFile, err)
	}

	return nil
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".vacancies")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "vacancies"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds the command's own flags and walks up to the root binding
// all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
