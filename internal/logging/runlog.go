package logging

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LogExt is the extension of per-run log files.
const LogExt = ".log"

// RunLogger manages the log file of a single TUI session.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string
	file    *os.File
}

// NewRunLogger creates <baseDir>/<store-slug>/<run-id>.log, where the slug
// names the data directory the session works on.
func NewRunLogger(baseDir, dataDir string) (*RunLogger, error) {
	logDir, err := StoreLogDir(baseDir, dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := newRunID(time.Now())
	logPath := filepath.Join(logDir, id+LogExt)
	file, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     logDir,
		RunID:   id,
		LogPath: logPath,
		file:    file,
	}, nil
}

// Writer returns the underlying log file writer.
func (r *RunLogger) Writer() *os.File {
	return r.file
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// StoreLogDir returns the directory holding session logs for the task store
// in dataDir. Sessions on the same data directory share it.
func StoreLogDir(baseDir, dataDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if dataDir == "" {
		return "", fmt.Errorf("data dir is empty")
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve log dir: %w", err)
	}
	data, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(base, storeSlug(data)), nil
}

// storeSlug is the sanitized base name of dataDir plus a short hash of
// the full path, e.g. "tasks-1a2b3c4d".
func storeSlug(dataDir string) string {
	parts := strings.FieldsFunc(filepath.Base(dataDir), func(r rune) bool {
		return !isSlugRune(r)
	})
	name := strings.Trim(strings.Join(parts, "_"), "._")
	if name == "" {
		name = "tasks"
	}
	sum := sha256.Sum256([]byte(dataDir))
	return fmt.Sprintf("%s-%x", name, sum[:4])
}

func isSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}

// newRunID is the UTC start time plus a random suffix, so sessions sort by
// start time and never collide.
func newRunID(start time.Time) string {
	return start.UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}
