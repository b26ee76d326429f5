package config

import (
	"os"
	"strings"
)

// loadFromEnvWithSources overrides config from TODOLIST_* variables and updates source tracking.
// If sources is nil, nothing is tracked.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TODOLIST_DATA_DIR"); v != "" {
		cfg.DataDir = v
		setEnv("data_dir")
	}
	if v := os.Getenv("TODOLIST_BACKEND"); v != "" {
		cfg.Backend = v
		setEnv("backend")
	}
	if v := os.Getenv("TODOLIST_PERSIST_COMPLETED"); v != "" {
		cfg.PersistCompleted = boolFromString(v)
		setEnv("persist_completed")
	}
	if v := os.Getenv("TODOLIST_THEME"); v != "" {
		cfg.Theme = v
		setEnv("theme")
	}
	if v := os.Getenv("TODOLIST_NOTIFY"); v != "" {
		cfg.Notify = boolFromString(v)
		setEnv("notify")
	}
	if v := os.Getenv("TODOLIST_NOTIFY_COMMAND"); v != "" {
		cfg.NotifyCommand = v
		setEnv("notify_command")
	}

	// Logging configuration
	if v := os.Getenv("TODOLIST_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TODOLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODOLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODOLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODOLIST_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}

// boolFromString parses common truthy values.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
