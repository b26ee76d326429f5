// Package storage persists task slots in a local key-value store.
//
// A slot is a named byte value. Two backends exist: "file" keeps one JSON file
// per key under the data directory, and "sqlite" keeps every key in a single
// kv table. Both overwrite the whole value on Set.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Slot keys.
const (
	KeyTasks     = "tasks"
	KeyCompleted = "completed"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendFile, BackendSQLite}

// ParseBackend normalizes a backend name.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BackendFile, BackendSQLite:
		return b, nil
	case "":
		return BackendFile, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (want file or sqlite)", s)
	}
}

// ErrInvalidKey is returned for slot keys outside [a-z0-9_-]+.
var ErrInvalidKey = errors.New("invalid slot key")

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Store reads and writes slot values.
type Store interface {
	// Get returns the value stored under key. ok is false when the slot is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the Store for backend rooted at dataDir.
func Open(ctx context.Context, backend Backend, dataDir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dataDir)
	case BackendSQLite:
		return OpenSQLite(ctx, SQLitePath(dataDir))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Location describes where backend keeps its data, for diagnostics.
func Location(backend Backend, dataDir string) string {
	if backend == BackendSQLite {
		return SQLitePath(dataDir)
	}
	return dataDir
}
