// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nibzard/todolist-go/internal/app"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// setupCLI isolates config lookup, points the data and log dirs at temp
// dirs, disables notifications and captures stdout.
func setupCLI(t *testing.T) (dataDir string, out *bytes.Buffer) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "TODOLIST_") {
			t.Setenv(name, "")
		}
	}
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	dataDir = filepath.Join(home, "data")
	t.Setenv("TODOLIST_DATA_DIR", dataDir)
	t.Setenv("TODOLIST_LOG_DIR", filepath.Join(home, "logs"))
	t.Setenv("TODOLIST_NOTIFY", "false")

	out = &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, &bytes.Buffer{}
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return dataDir, out
}

func run(t *testing.T, out *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	err := Run(context.Background(), args)
	return out.String(), err
}

func mustRun(t *testing.T, out *bytes.Buffer, args ...string) string {
	t.Helper()
	got, err := run(t, out, args...)
	if err != nil {
		t.Fatalf("Run(%v) error = %v", args, err)
	}
	return got
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		_, out := setupCLI(t)
		got := mustRun(t, out, "--help")
		if !strings.Contains(got, "Commands:") {
			t.Errorf("expected usage, got %q", got)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		_, out := setupCLI(t)
		if got := mustRun(t, out, "help"); !strings.Contains(got, "todolist") {
			t.Errorf("expected usage, got %q", got)
		}
	})

	t.Run("shows version with -v flag", func(t *testing.T) {
		_, out := setupCLI(t)
		if got := mustRun(t, out, "-v"); got != "todolist version dev\n" {
			t.Errorf("version output = %q", got)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, out := setupCLI(t)
		_, err := run(t, out, "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("invalid config value fails", func(t *testing.T) {
		_, out := setupCLI(t)
		_, err := run(t, out, "--backend", "redis", "ls")
		if err == nil || !strings.Contains(err.Error(), "backend") {
			t.Errorf("expected backend error, got %v", err)
		}
	})

	t.Run("tui requires a TTY", func(t *testing.T) {
		_, out := setupCLI(t)
		_, err := run(t, out)
		if err == nil || !strings.Contains(err.Error(), "TTY") {
			t.Errorf("expected TTY error, got %v", err)
		}
	})
}

func TestAddAndList(t *testing.T) {
	dataDir, out := setupCLI(t)

	got := mustRun(t, out, "add", "--desc", "2 liters", "--priority", "high", "Buy", "milk")
	if !strings.HasPrefix(got, "Added task 1: Buy milk [") {
		t.Errorf("add output = %q", got)
	}
	mustRun(t, out, "add", "Bake bread", "--desc", "sourdough", "--due", "2030-01-02", "--category", "Personal")

	got = mustRun(t, out, "ls")
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("ls printed %d lines, want 2:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[0], "1. [") || !strings.Contains(lines[0], "Buy milk (High, Work)") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Bake bread (Medium, Personal, due 2030-01-02)") {
		t.Errorf("line 2 = %q", lines[1])
	}

	if _, err := os.Stat(filepath.Join(dataDir, storage.KeyTasks+".json")); err != nil {
		t.Errorf("expected tasks slot on disk: %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing description", []string{"add", "Title only"}, "description"},
		{"missing title", []string{"add", "--desc", "d"}, "title"},
		{"bad priority", []string{"add", "--desc", "d", "--priority", "urgent", "t"}, "invalid priority"},
		{"bad category", []string{"add", "--desc", "d", "--category", "home", "t"}, "invalid category"},
		{"bad due date", []string{"add", "--desc", "d", "--due", "tomorrow", "t"}, "dueDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := setupCLI(t)
			_, err := run(t, out, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
			if got := mustRun(t, out, "ls"); got != "No Tasks Found\n" {
				t.Errorf("nothing should be saved, ls = %q", got)
			}
		})
	}
}

func TestListSearch(t *testing.T) {
	_, out := setupCLI(t)
	mustRun(t, out, "add", "--desc", "d", "Buy milk")
	mustRun(t, out, "add", "--desc", "d", "Bake bread")
	mustRun(t, out, "add", "--desc", "d", "buy eggs")

	got := mustRun(t, out, "ls", "--search", "BUY")
	if strings.Contains(got, "Bake bread") || !strings.Contains(got, "Buy milk") || !strings.Contains(got, "buy eggs") {
		t.Errorf("search output = %q", got)
	}
	// Positions refer to the full list.
	if !strings.Contains(got, "  3. [") {
		t.Errorf("expected buy eggs at position 3, got %q", got)
	}

	if got := mustRun(t, out, "ls", "zzz"); got != "No Tasks Found\n" {
		t.Errorf("no-match output = %q", got)
	}
}

func TestDoneAndCompleted(t *testing.T) {
	_, out := setupCLI(t)
	mustRun(t, out, "add", "--desc", "d", "A")
	mustRun(t, out, "add", "--desc", "d", "B")

	if got := mustRun(t, out, "done", "1"); got != "Completed: A\n" {
		t.Errorf("done output = %q", got)
	}
	if got := mustRun(t, out, "ls"); !strings.Contains(got, "1. [") || !strings.Contains(got, " B (") {
		t.Errorf("ls after done = %q", got)
	}

	// Without persist_completed the completed list lives only for one run.
	if got := mustRun(t, out, "completed"); !strings.HasPrefix(got, "No completed tasks.") {
		t.Errorf("completed output = %q", got)
	}
}

func TestPersistCompleted(t *testing.T) {
	_, out := setupCLI(t)
	t.Setenv("TODOLIST_PERSIST_COMPLETED", "true")
	mustRun(t, out, "add", "--desc", "d", "Laundry")
	mustRun(t, out, "done", "1")

	got := mustRun(t, out, "completed")
	if !strings.Contains(got, "Laundry") {
		t.Errorf("completed output = %q", got)
	}
}

func TestRemoveByIDPrefix(t *testing.T) {
	_, out := setupCLI(t)
	mustRun(t, out, "add", "--desc", "d", "A")
	mustRun(t, out, "add", "--desc", "d", "B")

	ls := mustRun(t, out, "ls", "-v")
	start := strings.Index(ls, "[")
	end := strings.Index(ls, "]")
	id := ls[start+1 : end]

	if got := mustRun(t, out, "rm", id[:8]); got != "Deleted: A\n" {
		t.Errorf("rm output = %q", got)
	}
	if got := mustRun(t, out, "ls"); strings.Contains(got, " A (") {
		t.Errorf("A should be gone, ls = %q", got)
	}
}

func TestTaskNotFound(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"position past end", []string{"rm", "5"}},
		{"position zero", []string{"done", "0"}},
		{"short prefix", []string{"rm", "abc"}},
		{"unknown id", []string{"edit", "--title", "x", "ffffffff-ffff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := setupCLI(t)
			mustRun(t, out, "add", "--desc", "d", "A")
			_, err := run(t, out, tt.args...)
			if !errors.Is(err, app.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			ref := tt.args[len(tt.args)-1]
			if err.Error() != "task not found: "+ref {
				t.Errorf("error = %q", err)
			}
			if got := mustRun(t, out, "ls"); !strings.Contains(got, " A (") {
				t.Errorf("list should be unchanged, got %q", got)
			}
		})
	}
}

func TestMissingRef(t *testing.T) {
	_, out := setupCLI(t)
	for _, args := range [][]string{{"done"}, {"rm", "1", "2"}} {
		if _, err := run(t, out, args...); err == nil {
			t.Errorf("Run(%v) expected error", args)
		}
	}
}

func TestEdit(t *testing.T) {
	t.Run("changes fields and keeps the id", func(t *testing.T) {
		_, out := setupCLI(t)
		mustRun(t, out, "add", "--desc", "d", "A")
		mustRun(t, out, "add", "--desc", "d", "B")
		before := mustRun(t, out, "ls", "-v")

		got := mustRun(t, out, "edit", "1", "--title", "A2", "--priority", "low")
		if !strings.HasPrefix(got, "Updated task 2: A2 [") {
			t.Errorf("edit output = %q", got)
		}

		order := mustRun(t, out, "ls")
		lines := strings.Split(strings.TrimSpace(order), "\n")
		if len(lines) != 2 || !strings.Contains(lines[0], " B (") || !strings.Contains(lines[1], "A2 (Low, Work)") {
			t.Errorf("edited task should move to the end:\n%s", order)
		}
		after := mustRun(t, out, "ls", "-v")
		firstID := before[strings.Index(before, "[")+1 : strings.Index(before, "]")]
		if !strings.Contains(after, "["+firstID+"] A2") {
			t.Errorf("edited task lost its id %s:\n%s", firstID, after)
		}
	})

	t.Run("invalid change restores the task", func(t *testing.T) {
		_, out := setupCLI(t)
		mustRun(t, out, "add", "--desc", "d", "A")
		mustRun(t, out, "add", "--desc", "d", "B")

		_, err := run(t, out, "edit", "1", "--due", "someday")
		if !errors.Is(err, todo.ErrInvalidTask) {
			t.Fatalf("expected ErrInvalidTask, got %v", err)
		}
		got := mustRun(t, out, "ls")
		lines := strings.Split(strings.TrimSpace(got), "\n")
		if len(lines) != 2 || !strings.Contains(lines[0], " A (") {
			t.Errorf("A should be back at position 1:\n%s", got)
		}
	})

	t.Run("nothing to change", func(t *testing.T) {
		_, out := setupCLI(t)
		mustRun(t, out, "add", "--desc", "d", "A")
		if _, err := run(t, out, "edit", "1"); err == nil || !strings.Contains(err.Error(), "nothing to change") {
			t.Errorf("expected nothing-to-change error, got %v", err)
		}
	})
}

func TestSQLiteBackend(t *testing.T) {
	dataDir, out := setupCLI(t)
	mustRun(t, out, "--backend", "sqlite", "add", "--desc", "d", "Stored in sqlite")

	if got := mustRun(t, out, "--backend", "sqlite", "ls"); !strings.Contains(got, "Stored in sqlite") {
		t.Errorf("sqlite ls = %q", got)
	}
	if got := mustRun(t, out, "ls"); got != "No Tasks Found\n" {
		t.Errorf("file backend should not see sqlite tasks, got %q", got)
	}
	if _, err := os.Stat(storage.SQLitePath(dataDir)); err != nil {
		t.Errorf("expected sqlite database: %v", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("passes on a fresh setup", func(t *testing.T) {
		_, out := setupCLI(t)
		got := mustRun(t, out, "doctor")
		if !strings.Contains(got, "Todolist Doctor") || !strings.Contains(got, "All checks passed") {
			t.Errorf("doctor output = %q", got)
		}
		if !strings.Contains(got, "Disabled (notify = false)") {
			t.Errorf("doctor should report disabled notifications:\n%s", got)
		}
	})

	t.Run("reports a valid slot", func(t *testing.T) {
		_, out := setupCLI(t)
		mustRun(t, out, "add", "--desc", "d", "A")
		got := mustRun(t, out, "doctor", "-v")
		if !strings.Contains(got, "Slot tasks: valid (1 tasks)") || !strings.Contains(got, "] A") {
			t.Errorf("doctor output = %q", got)
		}
	})

	t.Run("fails on a malformed slot", func(t *testing.T) {
		dataDir, out := setupCLI(t)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			t.Fatal(err)
		}
		bad := `[{"title": "x", "description": "y", "priority": "Huge", "category": "Work"}]`
		if err := os.WriteFile(filepath.Join(dataDir, "tasks.json"), []byte(bad), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := run(t, out, "doctor")
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Errorf("expected doctor failure, got %v", err)
		}
		if !strings.Contains(got, "1 will be repaired and 0 dropped") || !strings.Contains(got, "[0].priority") {
			t.Errorf("doctor output = %q", got)
		}
	})

	t.Run("fails on an unreadable slot", func(t *testing.T) {
		dataDir, out := setupCLI(t)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dataDir, "tasks.json"), []byte(`{"title": "x"}`), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := run(t, out, "doctor")
		if err == nil {
			t.Error("expected doctor failure")
		}
		if !strings.Contains(got, "unreadable (it will be reset on next start)") {
			t.Errorf("doctor output = %q", got)
		}
	})

	t.Run("prints the slot schema", func(t *testing.T) {
		_, out := setupCLI(t)
		got := mustRun(t, out, "doctor", "--schema")
		if !strings.Contains(got, `"$schema"`) || !strings.Contains(got, `"format": "date"`) {
			t.Errorf("schema output = %q", got)
		}
		if strings.Contains(got, "Todolist Doctor") {
			t.Error("--schema should print only the schema")
		}
	})
}

func TestInvalidRecordDoesNotLoseOtherTasks(t *testing.T) {
	dataDir, out := setupCLI(t)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	slot := `[
  {"title": "keep me", "description": "d", "priority": "Low", "category": "Work"},
  {"title": "bad date", "description": "d", "dueDate": "1/2/2024", "priority": "Low", "category": "Work"},
  {"title": "no description"}
]`
	if err := os.WriteFile(filepath.Join(dataDir, "tasks.json"), []byte(slot), 0644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, out, "add", "--desc", "d", "new one")
	got := mustRun(t, out, "ls")
	for _, want := range []string{"keep me", "bad date", "new one"} {
		if !strings.Contains(got, want) {
			t.Errorf("ls output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "no description") || strings.Contains(got, "1/2/2024") {
		t.Errorf("invalid record data survived:\n%s", got)
	}
}

func TestConfigCommand(t *testing.T) {
	dataDir, out := setupCLI(t)

	got := mustRun(t, out, "--theme", "dark", "config")
	if !strings.Contains(got, `theme = "dark"`) || !strings.Contains(got, dataDir) {
		t.Errorf("config output = %q", got)
	}

	got = mustRun(t, out, "--theme", "dark", "config", "--sources")
	if !strings.Contains(got, "theme") || !strings.Contains(got, "flag") || !strings.Contains(got, "environment") {
		t.Errorf("sources output = %q", got)
	}

	if got := mustRun(t, out, "config", "--example"); !strings.HasPrefix(got, "# todolist configuration file") {
		t.Errorf("example output = %q", got)
	}
}

func TestLogsCommand(t *testing.T) {
	dataDir, out := setupCLI(t)
	if got := mustRun(t, out, "logs"); got != "No log files found.\n" {
		t.Errorf("logs output = %q", got)
	}

	runLog, err := logging.NewRunLogger(filepath.Join(filepath.Dir(dataDir), "logs"), dataDir)
	if err != nil {
		t.Fatal(err)
	}
	runLog.Writer().WriteString("first\nsession started\n")
	runLog.Close()

	got := mustRun(t, out, "logs", "-n", "1")
	if !strings.Contains(got, runLog.LogPath) || !strings.HasSuffix(got, "\nsession started\n") {
		t.Errorf("logs output = %q", got)
	}
	if strings.Contains(got, "first") {
		t.Errorf("-n 1 printed more than one line: %q", got)
	}

	// Another data dir has its own session logs.
	if got := mustRun(t, out, "--data-dir", filepath.Join(t.TempDir(), "other"), "logs"); got != "No log files found.\n" {
		t.Errorf("logs for other data dir = %q", got)
	}
}

func TestParseInterspersed(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	desc := fs.String("desc", "", "")
	got, err := parseInterspersed(fs, []string{"Buy", "--desc", "x", "milk"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, " ") != "Buy milk" || *desc != "x" {
		t.Errorf("positional = %v, desc = %q", got, *desc)
	}
}

// TestCheckBinary tests the checkBinary helper with various scenarios.
func TestCheckBinary(t *testing.T) {
	var buf bytes.Buffer

	t.Run("required binary that exists", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping Unix-specific test")
		}
		if !checkBinary(&buf, "sh", "sh", true) {
			t.Error("expected checkBinary to return true for existing sh")
		}
	})

	t.Run("optional binary that doesn't exist", func(t *testing.T) {
		if !checkBinary(&buf, "missing", "nonexistent-binary-xyz123", false) {
			t.Error("expected checkBinary to return true even for missing optional binary")
		}
	})

	t.Run("required binary that doesn't exist", func(t *testing.T) {
		if checkBinary(&buf, "missing", "nonexistent-binary-xyz123", true) {
			t.Error("expected checkBinary to return false for missing required binary")
		}
	})
}

func TestIsWindowsExecutable(t *testing.T) {
	t.Setenv("PATHEXT", ".EXE;cmd")
	tests := map[string]bool{
		"notify.exe": true,
		"notify.CMD": true,
		"notify.sh":  false,
		"notify":     false,
	}
	for path, want := range tests {
		if got := isWindowsExecutable(path); got != want {
			t.Errorf("isWindowsExecutable(%q) = %v, want %v", path, got, want)
		}
	}
}
