package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todolist-go/internal/todo"
)

// Form fields in focus order. The last two are selectors.
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldCategory
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Due date", "Priority", "Category"}

type taskForm struct {
	inputs   [fieldDueDate + 1]textinput.Model
	priority int
	category int
	focus    int
	editing  bool
	err      string
}

func newTaskForm() taskForm {
	var f taskForm
	placeholders := [...]string{"What needs doing?", "Details", "YYYY-MM-DD (optional)"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.load(todo.NewDraft())
	return f
}

// load fills the form from a draft and moves focus to the title.
func (f *taskForm) load(d todo.Draft) {
	f.inputs[fieldTitle].SetValue(d.Title)
	f.inputs[fieldDescription].SetValue(d.Description)
	f.inputs[fieldDueDate].SetValue(d.DueDate)
	f.priority = indexOf(todo.Priorities, d.Priority, todo.DefaultPriority)
	f.category = indexOf(todo.Categories, d.Category, todo.DefaultCategory)
	f.editing = d.Editing()
	f.err = ""
	f.focus = fieldTitle
}

// draft returns the current field values. Origin is left to the store.
func (f *taskForm) draft() todo.Draft {
	d := todo.NewDraft()
	d.Title = f.inputs[fieldTitle].Value()
	d.Description = f.inputs[fieldDescription].Value()
	d.DueDate = f.inputs[fieldDueDate].Value()
	d.Priority = todo.Priorities[f.priority]
	d.Category = todo.Categories[f.category]
	return d
}

func (f *taskForm) lastField() bool {
	return f.focus == fieldCount-1
}

func (f *taskForm) focusField(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

func (f *taskForm) blur() {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
}

// cycle moves the focused selector by delta. Text fields are untouched.
func (f *taskForm) cycle(delta int) bool {
	switch f.focus {
	case fieldPriority:
		f.priority = wrap(f.priority+delta, len(todo.Priorities))
	case fieldCategory:
		f.category = wrap(f.category+delta, len(todo.Categories))
	default:
		return false
	}
	return true
}

// update forwards a message to the focused text input.
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// missing names the required fields that are blank.
func (f *taskForm) missing() []string {
	var out []string
	if strings.TrimSpace(f.inputs[fieldTitle].Value()) == "" {
		out = append(out, "title")
	}
	if strings.TrimSpace(f.inputs[fieldDescription].Value()) == "" {
		out = append(out, "description")
	}
	return out
}

func (f *taskForm) view(th Theme, active bool) string {
	var b strings.Builder
	heading := "Add Task"
	if f.editing {
		heading = "Edit Task"
	}
	b.WriteString(th.Section.Render(heading) + "\n")

	for i := 0; i < fieldCount; i++ {
		label := th.Label.Render(fieldLabels[i])
		if active && i == f.focus {
			label = th.Focused.Render(fieldLabels[i])
		}
		var value string
		switch i {
		case fieldPriority:
			value = selector(todo.Priorities[f.priority], active && i == f.focus, th)
		case fieldCategory:
			value = selector(todo.Categories[f.category], active && i == f.focus, th)
		default:
			value = f.inputs[i].View()
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", label, value))
	}
	if f.err != "" {
		b.WriteString("  " + th.Error.Render(f.err) + "\n")
	}
	return b.String()
}

func selector[T ~string](v T, focused bool, th Theme) string {
	if focused {
		return th.Toggle.Render("‹ " + string(v) + " ›")
	}
	return string(v)
}

func indexOf[T comparable](values []T, v, fallback T) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	for i, x := range values {
		if x == fallback {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
