// Package app ties the task list store to slot persistence and notifications.
//
// Every mutating call runs the store operation, then explicitly saves the
// active list. Adding a task also fires a best-effort notification that is
// never waited on.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// TaskAddedTitle is the notification title shown after a task is added.
const TaskAddedTitle = "New Task Added!"

// TaskAddedBody returns the notification body for a task title.
func TaskAddedBody(title string) string {
	return fmt.Sprintf("Task: %s added!", title)
}

// ErrNotFound is returned when an index or id does not name an active task.
var ErrNotFound = errors.New("task not found")

// ErrEditInProgress is returned by EditAt and Edit while another edit is open.
var ErrEditInProgress = errors.New("another task is being edited")

// Dispatcher fires notifications in the background.
type Dispatcher interface {
	Dispatch(title, body string)
	Wait(timeout time.Duration) bool
}

// Options configures an App.
type Options struct {
	Store storage.Store
	// Notifier may be nil.
	Notifier Dispatcher
	Logger   *log.Logger
	// PersistCompleted also saves and loads the completed list.
	PersistCompleted bool
	// NotifyGrace bounds how long Close waits for in-flight notifications.
	NotifyGrace time.Duration
}

// App is the orchestration layer over a todo.List.
type App struct {
	list             *todo.List
	store            storage.Store
	notifier         Dispatcher
	logger           *log.Logger
	persistCompleted bool
	notifyGrace      time.Duration
	hydrated         todo.HydrateResult
}

// New hydrates the active list (and the completed list when persisted) from the store.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, errors.New("app: store is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	grace := opts.NotifyGrace
	if grace <= 0 {
		grace = 2 * time.Second
	}

	a := &App{
		store:            opts.Store,
		notifier:         opts.Notifier,
		logger:           logger,
		persistCompleted: opts.PersistCompleted,
		notifyGrace:      grace,
	}

	hydrated, err := a.hydrate(ctx, storage.KeyTasks)
	if err != nil {
		return nil, err
	}
	a.hydrated = hydrated
	a.list = todo.NewList(hydrated.Tasks)

	if a.persistCompleted {
		completed, err := a.hydrate(ctx, storage.KeyCompleted)
		if err != nil {
			return nil, err
		}
		a.list.SetCompleted(completed.Tasks)
	}

	a.logger.Debug("hydrated task list", "tasks", a.list.Len(), "completed", len(a.list.Completed()))
	return a, nil
}

func (a *App) hydrate(ctx context.Context, key string) (todo.HydrateResult, error) {
	data, ok, err := a.store.Get(ctx, key)
	if err != nil {
		return todo.HydrateResult{}, fmt.Errorf("read %s slot: %w", key, err)
	}
	result := todo.Hydrate(data, ok)
	switch {
	case result.Recovered:
		a.logger.Warn("discarded unreadable slot, starting empty", "slot", key, "reason", result.Reason)
	case len(result.Issues) > 0:
		a.logger.Warn("repaired invalid records in slot",
			"slot", key, "repaired", result.Repaired, "dropped", result.Dropped, "issues", result.Issues)
	}
	return result, nil
}

// Recovered reports whether the active slot was reset or had records
// repaired or dropped at startup, and a one-line summary of what happened.
func (a *App) Recovered() (bool, string) {
	return a.hydrated.Damaged(), a.hydrated.Summary()
}

// Save overwrites the active slot with the full active list, and the
// completed slot when it is persisted.
func (a *App) Save(ctx context.Context) error {
	data, err := todo.Encode(a.list.Tasks())
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, storage.KeyTasks, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if !a.persistCompleted {
		return nil
	}
	data, err = todo.Encode(a.list.Completed())
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, storage.KeyCompleted, data); err != nil {
		return fmt.Errorf("save completed: %w", err)
	}
	return nil
}

// Tasks returns the active list.
func (a *App) Tasks() []todo.Task { return a.list.Tasks() }

// Completed returns the completed list.
func (a *App) Completed() []todo.Task { return a.list.Completed() }

// Len returns the number of active tasks.
func (a *App) Len() int { return a.list.Len() }

// At returns the active task at index.
func (a *App) At(index int) (todo.Task, bool) { return a.list.At(index) }

// IndexOf returns the position of the task with id, or -1.
func (a *App) IndexOf(id string) int { return a.list.IndexOf(id) }

// Filter returns the active tasks whose title contains term, ignoring case.
func (a *App) Filter(term string) []todo.Task { return a.list.Filter(term) }

// Search is Filter with positions.
func (a *App) Search(term string) []todo.Entry { return a.list.Search(term) }

// Draft returns the form draft.
func (a *App) Draft() todo.Draft { return a.list.Draft() }

// SetDraft replaces the draft's field values.
func (a *App) SetDraft(d todo.Draft) { a.list.SetDraft(d) }

// Add appends a task, saves, and announces it.
func (a *App) Add(ctx context.Context, task todo.Task) (todo.Task, error) {
	added, err := a.list.Add(task)
	if err != nil {
		return todo.Task{}, err
	}
	return added, a.afterAdd(ctx, added)
}

// SubmitDraft adds the task described by the draft, saves, and announces it.
func (a *App) SubmitDraft(ctx context.Context) (todo.Task, error) {
	added, err := a.list.SubmitDraft()
	if err != nil {
		return todo.Task{}, err
	}
	return added, a.afterAdd(ctx, added)
}

func (a *App) afterAdd(ctx context.Context, task todo.Task) error {
	a.logger.Info("task added", "id", task.ShortID(), "title", task.Title)
	if err := a.Save(ctx); err != nil {
		return err
	}
	if a.notifier != nil {
		a.notifier.Dispatch(TaskAddedTitle, TaskAddedBody(task.Title))
	}
	return nil
}

// DeleteAt removes the task at index and saves.
func (a *App) DeleteAt(ctx context.Context, index int) (todo.Task, error) {
	task, ok := a.list.DeleteAt(index)
	if !ok {
		return todo.Task{}, a.notFound("delete", index)
	}
	a.logger.Info("task deleted", "id", task.ShortID(), "title", task.Title)
	return task, a.Save(ctx)
}

// CompleteAt moves the task at index to the completed list and saves.
func (a *App) CompleteAt(ctx context.Context, index int) (todo.Task, error) {
	task, ok := a.list.CompleteAt(index)
	if !ok {
		return todo.Task{}, a.notFound("complete", index)
	}
	a.logger.Info("task completed", "id", task.ShortID(), "title", task.Title)
	return task, a.Save(ctx)
}

// EditAt moves the task at index into the draft and saves the shortened list.
func (a *App) EditAt(ctx context.Context, index int) (todo.Draft, error) {
	if open := a.list.Draft(); open.Editing() {
		a.logger.Warn("edit already open", "id", open.Origin.ShortID())
		return todo.Draft{}, ErrEditInProgress
	}
	draft, ok := a.list.EditAt(index)
	if !ok {
		return todo.Draft{}, a.notFound("edit", index)
	}
	a.logger.Info("task opened for editing", "id", draft.Origin.ShortID(), "title", draft.Title)
	return draft, a.Save(ctx)
}

// Delete removes the task with id and saves.
func (a *App) Delete(ctx context.Context, id string) (todo.Task, error) {
	return a.DeleteAt(ctx, a.list.IndexOf(id))
}

// Complete completes the task with id and saves.
func (a *App) Complete(ctx context.Context, id string) (todo.Task, error) {
	return a.CompleteAt(ctx, a.list.IndexOf(id))
}

// Edit opens the task with id in the draft and saves.
func (a *App) Edit(ctx context.Context, id string) (todo.Draft, error) {
	return a.EditAt(ctx, a.list.IndexOf(id))
}

// CancelDraft discards the draft. An edited task is put back and saved.
func (a *App) CancelDraft(ctx context.Context) (todo.Task, bool, error) {
	task, restored := a.list.CancelDraft()
	if !restored {
		return todo.Task{}, false, nil
	}
	a.logger.Info("edit cancelled, task restored", "id", task.ShortID(), "title", task.Title)
	return task, true, a.Save(ctx)
}

func (a *App) notFound(op string, index int) error {
	a.logger.Warn("ignored operation on missing task", "op", op, "index", index)
	return ErrNotFound
}

// Close waits briefly for in-flight notifications and closes the store.
func (a *App) Close() error {
	if a.notifier != nil && !a.notifier.Wait(a.notifyGrace) {
		a.logger.Debug("notifications still running at exit")
	}
	return a.store.Close()
}
