package config

import (
	"flag"
)

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"data-dir":          "data_dir",
	"backend":           "backend",
	"persist-completed": "persist_completed",
	"theme":             "theme",
	"notify":            "notify",
	"notify-command":    "notify_command",
	"log-dir":           "log_dir",
	"log-level":         "log_level",
	"log-format":        "log_format",
	"log-timestamps":    "log_timestamps",
	"log-caller":        "log_caller",
}

// parseFlagsWithSources defines and parses CLI flags and updates source tracking.
// If sources is nil, nothing is tracked.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todolist", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task slots")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Slot storage backend (file|sqlite)")
	fs.BoolVar(&cfg.PersistCompleted, "persist-completed", cfg.PersistCompleted, "Persist the completed list across runs")

	// Display
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Initial TUI theme (light|dark)")

	// Notifications
	fs.BoolVar(&cfg.Notify, "notify", cfg.Notify, "Show a desktop notification when a task is added")
	fs.StringVar(&cfg.NotifyCommand, "notify-command", cfg.NotifyCommand, "Notification command (default: notify-send or osascript)")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
