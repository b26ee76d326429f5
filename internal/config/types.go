package config

import (
	"fmt"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	DefaultDataDir   = "~/.todolist/data"
	DefaultBackend   = "file"
	DefaultTheme     = ThemeLight
	DefaultNotify    = true
	DefaultLogDir    = "~/.todolist/logs"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config holds the full configuration for todolist.
type Config struct {
	// Storage
	DataDir          string `toml:"data_dir"`
	Backend          string `toml:"backend"`
	PersistCompleted bool   `toml:"persist_completed"`

	// Display
	Theme string `toml:"theme"`

	// Notifications
	Notify        bool   `toml:"notify"`
	NotifyCommand string `toml:"notify_command"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// DarkMode reports whether the dark theme is selected.
func (c *Config) DarkMode() bool {
	return c.Theme == ThemeDark
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid backend %q (expected file|sqlite)", c.Backend)
	}
	switch c.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid theme %q (expected light|dark)", c.Theme)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q (expected text|json|logfmt)", c.LogFormat)
	}
	return nil
}
