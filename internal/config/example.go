package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Directory holding the task slots (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.todolist/data"

# Slot storage backend: "file" (one JSON file per slot) or "sqlite"
backend = "file"

# Keep completed tasks across runs in their own slot
persist_completed = false

# Initial TUI theme: "light" or "dark"
theme = "light"

# Show a desktop notification when a task is added
notify = true

# Notification command; title and body are appended as arguments
# notify_command = "notify-send --app-name=todolist"

# Log directory for TUI sessions
log_dir = "~/.todolist/logs"

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}
