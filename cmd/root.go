// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/app"
	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/notify"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// minIDPrefix is the shortest id prefix accepted as a task reference.
const minIDPrefix = 8

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand, "tui" when none is given
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "done", "complete":
		return doneCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "completed":
		return completedCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// cliLogger writes to stderr. Below debug level only warnings are shown
// since each command prints its own result.
func cliLogger(cfg *config.Config) *log.Logger {
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if logger.GetLevel() > log.DebugLevel && logger.GetLevel() < log.WarnLevel {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// openApp wires storage, notifications and the task list together.
func openApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app.App, error) {
	backend, err := storage.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", backend, err)
	}

	notifier := notify.NewCommandNotifier(notify.Options{
		Enabled: cfg.Notify,
		Command: cfg.NotifyCommand,
	})
	dispatcher := notify.NewDispatcher(notifier, logger, notify.DefaultTimeout)

	a, err := app.New(ctx, app.Options{
		Store:            store,
		Notifier:         dispatcher,
		Logger:           logger,
		PersistCompleted: cfg.PersistCompleted,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// withApp opens the app, runs fn and closes the app again.
func withApp(ctx context.Context, cfg *config.Config, fn func(*app.App) error) (err error) {
	a, err := openApp(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (try 'todolist ls')")
	}

	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()
	logger := logging.NewFromConfig(runLog.Writer(), cfg.LogLevel, cfg.LogFormat, true, cfg.LogCaller)
	logger.Info("session started", "data_dir", cfg.DataDir, "backend", cfg.Backend)

	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.RunTUI(ctx, a, ui.Options{Dark: cfg.DarkMode(), Logger: logger})
}

// addCommand adds one task.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	desc := fs.String("desc", "", "Task description (required)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	priorityArg := fs.String("priority", string(todo.DefaultPriority), "Priority (High|Medium|Low)")
	categoryArg := fs.String("category", string(todo.DefaultCategory), "Category (Work|Personal|Urgent)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	priority, err := todo.ParsePriority(*priorityArg)
	if err != nil {
		return err
	}
	category, err := todo.ParseCategory(*categoryArg)
	if err != nil {
		return err
	}

	task := todo.Task{
		Title:       strings.Join(positional, " "),
		Description: *desc,
		DueDate:     *due,
		Priority:    priority,
		Category:    category,
	}
	return withApp(ctx, cfg, func(a *app.App) error {
		added, err := a.Add(ctx, task)
		if added.IsZero() {
			return err
		}
		fmt.Fprintf(stdout, "Added task %d: %s [%s]\n", a.Len(), added.Title, added.ShortID())
		return err
	})
}

// lsCommand prints the active list with 1-based positions.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	search := fs.String("search", "", "Only list tasks whose title contains this text")
	verbose := fs.Bool("v", false, "Show descriptions and full ids")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	term := *search
	if term == "" {
		term = strings.Join(positional, " ")
	}

	return withApp(ctx, cfg, func(a *app.App) error {
		entries := a.Search(term)
		if len(entries) == 0 {
			fmt.Fprintln(stdout, "No Tasks Found")
			return nil
		}
		for _, e := range entries {
			printTask(e.Index+1, e.Task, *verbose)
		}
		return nil
	})
}

// doneCommand moves a task to the completed list.
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	ref, err := singleRef("done", args)
	if err != nil {
		return err
	}
	return withApp(ctx, cfg, func(a *app.App) error {
		id, err := resolveRef(a, ref)
		if err != nil {
			return err
		}
		task, err := a.Complete(ctx, id)
		if task.IsZero() {
			return err
		}
		fmt.Fprintf(stdout, "Completed: %s\n", task.Title)
		return err
	})
}

// rmCommand deletes a task.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	ref, err := singleRef("rm", args)
	if err != nil {
		return err
	}
	return withApp(ctx, cfg, func(a *app.App) error {
		id, err := resolveRef(a, ref)
		if err != nil {
			return err
		}
		task, err := a.Delete(ctx, id)
		if task.IsZero() {
			return err
		}
		fmt.Fprintf(stdout, "Deleted: %s\n", task.Title)
		return err
	})
}

// editCommand opens a task in the draft, applies the given fields and submits it.
// Like the form, a resubmitted task moves to the end of the list.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	due := fs.String("due", "", "New due date (YYYY-MM-DD, empty to clear)")
	priorityArg := fs.String("priority", "", "New priority (High|Medium|Low)")
	categoryArg := fs.String("category", "", "New category (Work|Personal|Urgent)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	ref, err := singleRef("edit", positional)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return errors.New("edit: nothing to change (use --title, --desc, --due, --priority or --category)")
	}
	var priority todo.Priority
	if set["priority"] {
		if priority, err = todo.ParsePriority(*priorityArg); err != nil {
			return err
		}
	}
	var category todo.Category
	if set["category"] {
		if category, err = todo.ParseCategory(*categoryArg); err != nil {
			return err
		}
	}

	return withApp(ctx, cfg, func(a *app.App) error {
		id, err := resolveRef(a, ref)
		if err != nil {
			return err
		}
		draft, err := a.Edit(ctx, id)
		if err != nil {
			_, _, _ = a.CancelDraft(ctx)
			return err
		}
		if set["title"] {
			draft.Title = *title
		}
		if set["desc"] {
			draft.Description = *desc
		}
		if set["due"] {
			draft.DueDate = *due
		}
		if set["priority"] {
			draft.Priority = priority
		}
		if set["category"] {
			draft.Category = category
		}
		a.SetDraft(draft)

		task, err := a.SubmitDraft(ctx)
		if task.IsZero() {
			if _, _, cerr := a.CancelDraft(ctx); cerr != nil {
				return errors.Join(err, cerr)
			}
			return err
		}
		fmt.Fprintf(stdout, "Updated task %d: %s [%s]\n", a.Len(), task.Title, task.ShortID())
		return err
	})
}

// completedCommand lists the completed tasks.
func completedCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return withApp(ctx, cfg, func(a *app.App) error {
		completed := a.Completed()
		if len(completed) == 0 {
			fmt.Fprintln(stdout, "No completed tasks.")
			if !cfg.PersistCompleted {
				fmt.Fprintln(stdout, "(Completed tasks are kept only for a session; set persist_completed = true to keep them.)")
			}
			return nil
		}
		for i, t := range completed {
			printTask(i+1, t, false)
		}
		return nil
	})
}

// doctorCommand checks the data directory, slots, notifications and logs.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	schema := fs.Bool("schema", false, "Print the JSON Schema used to check task slots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *schema {
		_, err := stdout.Write(todo.Schema())
		return err
	}
	cfg := cws.Config
	w := stdout

	fmt.Fprintln(w, "Todolist Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ None (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintln(w)

	// Storage
	backend, err := storage.ParseBackend(cfg.Backend)
	location := storage.Location(backend, cfg.DataDir)
	fmt.Fprintf(w, "Storage: %s (%s)\n", cfg.Backend, location)
	switch _, statErr := os.Stat(location); {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case os.IsNotExist(statErr):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
	case statErr != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", statErr)
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
		if !checkSlots(ctx, w, cfg, backend, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Notifications
	fmt.Fprintln(w, "Notifications:")
	command := cfg.NotifyCommand
	if strings.TrimSpace(command) == "" {
		command = notify.DefaultCommand(runtime.GOOS)
	}
	switch {
	case !cfg.Notify:
		fmt.Fprintln(w, "  ⚠️  Disabled (notify = false)")
	case strings.TrimSpace(command) == "":
		fmt.Fprintf(w, "  ⚠️  No notification command known for %s\n", runtime.GOOS)
	default:
		_ = checkBinary(w, "command", strings.Fields(command)[0], false)
	}
	fmt.Fprintln(w)

	// Check log directory
	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created by the TUI)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. todolist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkSlots validates every persisted slot against the slot schema.
func checkSlots(ctx context.Context, w io.Writer, cfg *config.Config, backend storage.Backend, verbose bool) bool {
	store, err := storage.Open(ctx, backend, cfg.DataDir)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open error: %v\n", err)
		return false
	}
	defer store.Close()

	keys := []string{storage.KeyTasks}
	if cfg.PersistCompleted {
		keys = append(keys, storage.KeyCompleted)
	}

	ok := true
	for _, key := range keys {
		data, present, err := store.Get(ctx, key)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  ❌ Slot %s: %v\n", key, err)
			ok = false
			continue
		case !present:
			fmt.Fprintf(w, "  ⚠️  Slot %s: empty\n", key)
			continue
		}

		hydrated := todo.Hydrate(data, present)
		switch {
		case hydrated.Recovered:
			fmt.Fprintf(w, "  ❌ Slot %s: unreadable (it will be reset on next start): %s\n", key, hydrated.Reason)
			ok = false
			continue
		case len(hydrated.Issues) > 0:
			fmt.Fprintf(w, "  ❌ Slot %s: %d invalid record(s), %d will be repaired and %d dropped on next start:\n",
				key, hydrated.Repaired+hydrated.Dropped, hydrated.Repaired, hydrated.Dropped)
			for _, issue := range hydrated.Issues {
				fmt.Fprintf(w, "     - %s\n", issue)
			}
			ok = false
			continue
		}
		fmt.Fprintf(w, "  ✅ Slot %s: valid (%d tasks)\n", key, len(hydrated.Tasks))
		if verbose {
			for _, t := range hydrated.Tasks {
				fmt.Fprintf(w, "    - [%s] %s\n", t.ShortID(), t.Title)
			}
		}
	}
	return ok
}

// configCommand prints the effective configuration.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todolist config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showSources := fs.Bool("sources", false, "Show where each value came from")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}
	if *showSources {
		fields := make([]string, 0, len(cws.Sources))
		for field := range cws.Sources {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(stdout, "%-18s %s\n", field, cws.Sources[field])
		}
		return nil
	}

	out, err := config.Encode(cws.Config)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

// logsCommand prints the latest TUI session log.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.StoreLogDir(cfg.LogDir, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todolist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todolist - a small task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add <title...>      Add a task (--desc is required)")
	fmt.Fprintln(w, "  ls [term]           List tasks, optionally filtered by title")
	fmt.Fprintln(w, "  done <n|id>         Mark a task as completed")
	fmt.Fprintln(w, "  rm <n|id>           Delete a task")
	fmt.Fprintln(w, "  edit <n|id>         Change a task's fields")
	fmt.Fprintln(w, "  completed           List completed tasks")
	fmt.Fprintln(w, "  doctor              Check storage, slots, notifications and logs")
	fmt.Fprintln(w, "  config              Print the effective configuration")
	fmt.Fprintln(w, "  logs                Show the latest TUI session log")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tasks are addressed by their position in 'ls' (1, 2, ...) or by an id")
	fmt.Fprintf(w, "prefix of at least %d characters.\n", minIDPrefix)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -desc string        Task description (required)")
	fmt.Fprintln(w, "  -due string         Due date (YYYY-MM-DD)")
	fmt.Fprintln(w, "  -priority string    High|Medium|Low (default Medium)")
	fmt.Fprintln(w, "  -category string    Work|Personal|Urgent (default Work)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options:")
	fmt.Fprintln(w, "  -title, -desc, -due, -priority, -category")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -search string      Filter by title (case-insensitive)")
	fmt.Fprintln(w, "  -v                  Show descriptions and full ids")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -f, --follow        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int              Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options:")
	fmt.Fprintln(w, "  -v                  List the tasks in each slot")
	fmt.Fprintln(w, "  -schema             Print the task slot JSON Schema and exit")
}

// printTask prints a single task at a 1-based position.
func printTask(pos int, t todo.Task, verbose bool) {
	id := t.ShortID()
	if verbose {
		id = t.ID
	}
	details := []string{string(t.Priority), string(t.Category)}
	if t.DueDate != "" {
		details = append(details, "due "+t.DueDate)
	}
	fmt.Fprintf(stdout, "%3d. [%s] %s (%s)\n", pos, id, t.Title, strings.Join(details, ", "))
	if verbose && t.Description != "" {
		fmt.Fprintf(stdout, "       %s\n", t.Description)
	}
}

// parseInterspersed parses flags that appear before, between or after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func singleRef(command string, args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("%s: missing task number or id", command)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%s: unexpected arguments: %v", command, args[1:])
	}
}

// resolveRef turns a 1-based position or an id prefix into a task id.
func resolveRef(a *app.App, ref string) (string, error) {
	notFound := fmt.Errorf("%w: %s", app.ErrNotFound, ref)
	if n, err := strconv.Atoi(ref); err == nil {
		task, ok := a.At(n - 1)
		if !ok {
			return "", notFound
		}
		return task.ID, nil
	}
	if len(ref) < minIDPrefix {
		return "", notFound
	}

	var matches []string
	for _, t := range a.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", notFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous task id %s matches %d tasks", ref, len(matches))
	}
}

func checkBinary(w io.Writer, label, binary string, required bool) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() || !isExecutablePath(binary, info) {
			return report(w, required, "Not executable")
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return report(w, required, fmt.Sprintf("Not found: %v", err))
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}

// report prints a failed check as an error when required, else as a warning.
func report(w io.Writer, required bool, msg string) bool {
	if required {
		fmt.Fprintf(w, "  ❌ %s\n", msg)
		return false
	}
	fmt.Fprintf(w, "  ⚠️  %s\n", msg)
	return true
}

func isExecutablePath(path string, info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return isWindowsExecutable(path)
	}
	return info.Mode().Perm()&0111 != 0
}

func isWindowsExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return windowsExecutableExts()[ext]
}

func windowsExecutableExts() map[string]bool {
	exts := map[string]bool{}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	for _, ext := range strings.Split(pathext, ";") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}
