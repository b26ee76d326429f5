// Package notify shows best-effort desktop notifications through an external command.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Permission is the notification permission state.
type Permission int

const (
	// PermissionDefault means permission has not been resolved yet.
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// ErrPermissionDenied is returned by Notify when notifications are disabled
// or no notification command is available.
var ErrPermissionDenied = errors.New("notification permission denied")

// Notifier shows a notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// DefaultCommand returns the notification command for goos, or "" if none is known.
func DefaultCommand(goos string) string {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

// Options configures a CommandNotifier.
type Options struct {
	// Enabled is the user's consent. When false, permission resolves to denied.
	Enabled bool
	// Command is the notification program plus any leading arguments.
	// Empty selects DefaultCommand for the running OS.
	Command string
}

// Result describes a notification command run.
type Result struct {
	Ran      bool
	ExitCode int
	Output   string
}

// CommandNotifier runs an external program to show notifications.
// Permission is resolved on first use and then cached.
type CommandNotifier struct {
	enabled bool
	argv    []string

	lookPath func(string) (string, error)

	once sync.Once
	mu   sync.Mutex
	perm Permission
	path string
}

// NewCommandNotifier creates a notifier. Nothing is resolved until the first
// call to RequestPermission or Notify.
func NewCommandNotifier(opts Options) *CommandNotifier {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		command = DefaultCommand(runtime.GOOS)
	}
	return &CommandNotifier{
		enabled:  opts.Enabled,
		argv:     strings.Fields(command),
		lookPath: exec.LookPath,
	}
}

// Permission returns the current state without resolving it.
func (n *CommandNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.perm
}

// Command returns the resolved program path, empty until permission is granted.
func (n *CommandNotifier) Command() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// RequestPermission resolves the permission state once.
func (n *CommandNotifier) RequestPermission() Permission {
	n.once.Do(func() {
		perm, path := n.resolve()
		n.mu.Lock()
		n.perm, n.path = perm, path
		n.mu.Unlock()
	})
	return n.Permission()
}

func (n *CommandNotifier) resolve() (Permission, string) {
	if !n.enabled || len(n.argv) == 0 {
		return PermissionDenied, ""
	}
	path, err := n.lookPath(n.argv[0])
	if err != nil {
		return PermissionDenied, ""
	}
	return PermissionGranted, path
}

// Notify shows a notification with title and body.
func (n *CommandNotifier) Notify(ctx context.Context, title, body string) error {
	if n.RequestPermission() != PermissionGranted {
		return ErrPermissionDenied
	}
	args := append(append([]string{}, n.argv[1:]...), commandArgs(n.argv[0], title, body)...)
	result, err := run(ctx, n.Command(), args)
	if err != nil {
		return fmt.Errorf("notify via %s (exit %d): %w", filepath.Base(n.argv[0]), result.ExitCode, err)
	}
	return nil
}

// commandArgs builds the trailing arguments for program. osascript gets an
// AppleScript expression; anything else gets title and body as positional args.
func commandArgs(program, title, body string) []string {
	if filepath.Base(program) == "osascript" {
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(body), appleScriptString(title))
		return []string{"-e", script}
	}
	return []string{title, body}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func run(ctx context.Context, path string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := Result{
		Ran:      true,
		ExitCode: exitCodeFromError(err),
		Output:   strings.TrimSpace(out.String()),
	}
	if err != nil {
		if result.Output != "" {
			return result, fmt.Errorf("%w: %s", err, result.Output)
		}
		return result, err
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
