// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/app"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/todo"
)

// TaskStore is the part of *app.App the TUI drives.
type TaskStore interface {
	Search(term string) []todo.Entry
	Completed() []todo.Task
	Draft() todo.Draft
	SetDraft(d todo.Draft)
	SubmitDraft(ctx context.Context) (todo.Task, error)
	Complete(ctx context.Context, id string) (todo.Task, error)
	Delete(ctx context.Context, id string) (todo.Task, error)
	Edit(ctx context.Context, id string) (todo.Draft, error)
	CancelDraft(ctx context.Context) (todo.Task, bool, error)
	Recovered() (bool, string)
}

// Options configures the TUI.
type Options struct {
	// Dark starts the TUI in dark mode.
	Dark   bool
	Logger *log.Logger
}

// RunTUI runs the task list TUI until the user quits or ctx is done.
// An edit left open on exit is put back into the list.
func RunTUI(ctx context.Context, tasks TaskStore, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, tasks, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()
	if err := model.restoreDraft(); err != nil && runErr == nil {
		runErr = err
	}
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return runErr
}

type focus int

const (
	focusList focus = iota
	focusForm
	focusSearch
)

type tuiModel struct {
	ctx    context.Context
	tasks  TaskStore
	logger *log.Logger

	theme  Theme
	keys   keyMap
	help   help.Model
	form   taskForm
	search textinput.Model

	focus         focus
	cursor        int
	showCompleted bool
	status        string
	statusErr     bool
	width         int
}

func newTUIModel(ctx context.Context, tasks TaskStore, opts Options) *tuiModel {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	search := textinput.New()
	search.Placeholder = "Search tasks"
	search.Prompt = ""
	search.CharLimit = 100

	m := &tuiModel{
		ctx:    ctx,
		tasks:  tasks,
		logger: logger,
		theme:  ThemeFor(opts.Dark),
		keys:   defaultKeyMap(),
		help:   help.New(),
		form:   newTaskForm(),
		search: search,
	}
	if recovered, reason := tasks.Recovered(); recovered {
		m.setError("Saved tasks needed recovery (%s)", reason)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.logger.Debug("tui started", "dark", m.theme.Dark)
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.focus {
		case focusForm:
			return m, m.updateForm(msg)
		case focusSearch:
			return m, m.updateSearch(msg)
		default:
			return m, m.updateList(msg)
		}
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	switch m.focus {
	case focusForm:
		cmd = m.form.update(msg)
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.New):
		m.form.load(m.tasks.Draft())
		return m.openForm()
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m.search.Focus()
	case key.Matches(msg, m.keys.Complete):
		m.completeSelected()
	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()
	case key.Matches(msg, m.keys.Edit):
		return m.editSelected()
	case key.Matches(msg, m.keys.Theme):
		m.theme = ThemeFor(!m.theme.Dark)
		m.logger.Debug("theme toggled", "dark", m.theme.Dark)
	case key.Matches(msg, m.keys.ShowCompleted):
		m.showCompleted = !m.showCompleted
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.clampCursor()
		}
	}
	return nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.cancelForm()
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Enter):
		if m.form.lastField() {
			return m.submit()
		}
		return m.form.focusField(m.form.focus + 1)
	case key.Matches(msg, m.keys.Next):
		return m.form.focusField(m.form.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.form.focusField(m.form.focus - 1)
	case key.Matches(msg, m.keys.Left):
		if m.form.cycle(-1) {
			m.tasks.SetDraft(m.form.draft())
			return nil
		}
	case key.Matches(msg, m.keys.Right):
		if m.form.cycle(1) {
			m.tasks.SetDraft(m.form.draft())
			return nil
		}
	}
	cmd := m.form.update(msg)
	m.form.err = ""
	m.tasks.SetDraft(m.form.draft())
	return cmd
}

func (m *tuiModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.focus = focusList
		m.clampCursor()
		return nil
	case tea.KeyEnter:
		m.search.Blur()
		m.focus = focusList
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return cmd
}

func (m *tuiModel) openForm() tea.Cmd {
	m.focus = focusForm
	return m.form.focusField(fieldTitle)
}

func (m *tuiModel) closeForm() {
	m.form.load(todo.NewDraft())
	m.form.blur()
	m.focus = focusList
}

func (m *tuiModel) submit() tea.Cmd {
	if missing := m.form.missing(); len(missing) > 0 {
		m.form.err = fmt.Sprintf("Please fill in the %s.", strings.Join(missing, " and "))
		return nil
	}
	m.tasks.SetDraft(m.form.draft())
	task, err := m.tasks.SubmitDraft(m.ctx)
	if task.IsZero() {
		m.form.err = err.Error()
		return nil
	}

	m.closeForm()
	m.selectID(task.ID)
	if err != nil {
		m.setError("Task added but not saved: %v", err)
		return nil
	}
	m.setStatus("Added %q", task.Title)
	return nil
}

func (m *tuiModel) cancelForm() {
	task, restored, err := m.tasks.CancelDraft(m.ctx)
	m.closeForm()
	switch {
	case err != nil:
		m.setError("Edit cancelled but not saved: %v", err)
	case restored:
		m.selectID(task.ID)
		m.setStatus("Edit cancelled")
	}
}

func (m *tuiModel) completeSelected() {
	entry, ok := m.selected()
	if !ok {
		return
	}
	task, err := m.tasks.Complete(m.ctx, entry.Task.ID)
	if m.reportError(err) {
		return
	}
	m.clampCursor()
	m.setStatus("Completed %q", task.Title)
}

func (m *tuiModel) deleteSelected() {
	entry, ok := m.selected()
	if !ok {
		return
	}
	task, err := m.tasks.Delete(m.ctx, entry.Task.ID)
	if m.reportError(err) {
		return
	}
	m.clampCursor()
	m.setStatus("Deleted %q", task.Title)
}

func (m *tuiModel) editSelected() tea.Cmd {
	entry, ok := m.selected()
	if !ok {
		return nil
	}
	draft, err := m.tasks.Edit(m.ctx, entry.Task.ID)
	if errors.Is(err, app.ErrNotFound) {
		m.reportError(err)
		return nil
	}
	// The draft holds the task even if the shortened list failed to save.
	m.form.load(draft)
	m.clampCursor()
	if err != nil {
		m.reportError(err)
	} else {
		m.status = ""
	}
	return m.openForm()
}

// restoreDraft puts an edit that is still open back into the list.
func (m *tuiModel) restoreDraft() error {
	_, restored, err := m.tasks.CancelDraft(context.WithoutCancel(m.ctx))
	if restored {
		m.logger.Info("restored task left open in the editor")
	}
	return err
}

func (m *tuiModel) reportError(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, app.ErrNotFound):
		m.setError("Task no longer exists")
	case errors.Is(err, app.ErrEditInProgress):
		m.setError("Finish the open edit first")
	default:
		m.setError("Save failed: %v", err)
	}
	m.logger.Error("task operation failed", "error", err)
	return true
}

func (m *tuiModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *tuiModel) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m *tuiModel) entries() []todo.Entry {
	return m.tasks.Search(m.search.Value())
}

func (m *tuiModel) selected() (todo.Entry, bool) {
	entries := m.entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return todo.Entry{}, false
	}
	return entries[m.cursor], true
}

func (m *tuiModel) selectID(id string) {
	for i, e := range m.entries() {
		if e.Task.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	n := len(m.entries())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	th := m.theme
	var b strings.Builder

	b.WriteString(th.Header.Render("To-Do List"))
	b.WriteString("  " + th.Toggle.Render(th.ToggleLabel()) + th.Muted.Render(" (t)") + "\n\n")

	b.WriteString(m.form.view(th, m.focus == focusForm))
	b.WriteString("\n")

	searchLabel := th.Label.Render("Search")
	if m.focus == focusSearch {
		searchLabel = th.Focused.Render("Search")
	}
	b.WriteString(searchLabel + " " + m.search.View() + "\n\n")

	m.writeTasks(&b)
	if m.showCompleted {
		m.writeCompleted(&b)
	}

	if m.status != "" {
		style := th.Status
		if m.statusErr {
			style = th.Error
		}
		b.WriteString(style.Render(m.status) + "\n\n")
	}

	var keys help.KeyMap = listKeys{m.keys}
	switch m.focus {
	case focusForm:
		keys = formKeys{m.keys}
	case focusSearch:
		keys = searchKeys{m.keys}
	}
	b.WriteString(m.help.View(keys) + "\n")
	return b.String()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	th := m.theme
	entries := m.entries()
	b.WriteString(th.Section.Render(fmt.Sprintf("Tasks (%d)", len(entries))) + "\n")
	if len(entries) == 0 {
		b.WriteString(th.Muted.Render("  No Tasks Found") + "\n\n")
		return
	}
	for i, e := range entries {
		line := formatTask(e.Task, th)
		if i == m.cursor && m.focus == focusList {
			b.WriteString(th.Selected.Render("> "+line) + "\n")
			continue
		}
		b.WriteString(th.Item.Render("  "+line) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeCompleted(b *strings.Builder) {
	th := m.theme
	completed := m.tasks.Completed()
	b.WriteString(th.Section.Render(fmt.Sprintf("Completed (%d)", len(completed))) + "\n")
	if len(completed) == 0 {
		b.WriteString(th.Muted.Render("  No completed tasks yet.") + "\n\n")
		return
	}
	for _, t := range completed {
		b.WriteString(th.Done.Render(t.Title) + "\n")
	}
	b.WriteString("\n")
}

func formatTask(t todo.Task, th Theme) string {
	parts := []string{
		t.Title,
		th.PriorityStyle(t.Priority).Render(string(t.Priority)),
		string(t.Category),
	}
	if t.DueDate != "" {
		parts = append(parts, "due "+t.DueDate)
	}
	line := strings.Join(parts, " · ")
	if t.Description != "" {
		line += "\n      " + th.Muted.Render(truncate(t.Description, 60))
	}
	return line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
