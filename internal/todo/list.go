package todo

import (
	"strings"
)

// Entry pairs a task with its current position in the active list.
type Entry struct {
	Index int
	Task  Task
}

// List is the in-memory task list store.
type List struct {
	active    []Task
	completed []Task
	draft     Draft
	newID     func() string
}

// NewList creates a store whose active list starts as tasks.
func NewList(tasks []Task) *List {
	active := make([]Task, len(tasks))
	copy(active, tasks)
	return &List{
		active: active,
		draft:  NewDraft(),
		newID:  NewID,
	}
}

// Len returns the number of active tasks.
func (l *List) Len() int {
	return len(l.active)
}

// Tasks returns a copy of the active list.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.active))
	copy(out, l.active)
	return out
}

// Completed returns a copy of the completed list.
func (l *List) Completed() []Task {
	out := make([]Task, len(l.completed))
	copy(out, l.completed)
	return out
}

// SetCompleted replaces the completed list.
func (l *List) SetCompleted(tasks []Task) {
	l.completed = make([]Task, len(tasks))
	copy(l.completed, tasks)
}

// At returns the task at index.
func (l *List) At(index int) (Task, bool) {
	if index < 0 || index >= len(l.active) {
		return Task{}, false
	}
	return l.active[index], true
}

// IndexOf returns the current position of the task with the given id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range l.active {
		if l.active[i].ID == id {
			return i
		}
	}
	return -1
}

// Add validates the task, applies defaults and appends it to the active list.
func (l *List) Add(task Task) (Task, error) {
	task = task.withDefaults()
	if err := task.Validate(); err != nil {
		return Task{}, err
	}
	if task.ID == "" || l.IndexOf(task.ID) >= 0 {
		task.ID = l.newID()
	}
	l.active = append(l.active, task)
	return task, nil
}

// DeleteAt removes the task at index. Out-of-range indices are a no-op.
func (l *List) DeleteAt(index int) (Task, bool) {
	task, ok := l.At(index)
	if !ok {
		return Task{}, false
	}
	l.active = append(l.active[:index], l.active[index+1:]...)
	return task, true
}

// CompleteAt moves the task at index to the end of the completed list.
func (l *List) CompleteAt(index int) (Task, bool) {
	task, ok := l.At(index)
	if !ok {
		return Task{}, false
	}
	l.completed = append(l.completed, task)
	l.DeleteAt(index)
	return task, true
}

// EditAt copies the task at index into the draft and removes it from the
// active list. The task stays out of the list until SubmitDraft re-adds it
// or CancelDraft restores it. EditAt reports false while another edit is
// open, so that edit's task is never lost.
func (l *List) EditAt(index int) (Draft, bool) {
	if l.draft.Editing() {
		return Draft{}, false
	}
	task, ok := l.At(index)
	if !ok {
		return Draft{}, false
	}
	l.draft = DraftFrom(task, index)
	l.DeleteAt(index)
	return l.draft, true
}

// Delete removes the task with the given id.
func (l *List) Delete(id string) (Task, bool) {
	return l.DeleteAt(l.IndexOf(id))
}

// Complete completes the task with the given id.
func (l *List) Complete(id string) (Task, bool) {
	return l.CompleteAt(l.IndexOf(id))
}

// Edit opens the task with the given id in the draft.
func (l *List) Edit(id string) (Draft, bool) {
	return l.EditAt(l.IndexOf(id))
}

// Draft returns the current form draft.
func (l *List) Draft() Draft {
	return l.draft
}

// SetDraft replaces the draft's field values, keeping its origin.
func (l *List) SetDraft(d Draft) {
	d.Origin = l.draft.Origin
	d.OriginIndex = l.draft.OriginIndex
	l.draft = d
}

// SubmitDraft adds the task described by the draft and resets the draft.
// On a validation error the draft is left untouched.
func (l *List) SubmitDraft() (Task, error) {
	task, err := l.Add(l.draft.Task())
	if err != nil {
		return Task{}, err
	}
	l.draft = NewDraft()
	return task, nil
}

// CancelDraft discards the draft. A draft opened by EditAt puts its origin
// task back at the position it was removed from.
func (l *List) CancelDraft() (Task, bool) {
	d := l.draft
	l.draft = NewDraft()
	if d.Origin == nil {
		return Task{}, false
	}

	task := *d.Origin
	if l.IndexOf(task.ID) >= 0 {
		return Task{}, false
	}
	index := d.OriginIndex
	if index < 0 || index > len(l.active) {
		index = len(l.active)
	}
	l.active = append(l.active, Task{})
	copy(l.active[index+1:], l.active[index:])
	l.active[index] = task
	return task, true
}

// Search returns the active tasks whose title contains term, ignoring case,
// together with their positions. An empty term matches every task.
func (l *List) Search(term string) []Entry {
	needle := strings.ToLower(term)
	out := make([]Entry, 0, len(l.active))
	for i, task := range l.active {
		if strings.Contains(strings.ToLower(task.Title), needle) {
			out = append(out, Entry{Index: i, Task: task})
		}
	}
	return out
}

// Filter returns the active tasks whose title contains term, ignoring case.
func (l *List) Filter(term string) []Task {
	entries := l.Search(term)
	out := make([]Task, len(entries))
	for i, e := range entries {
		out[i] = e.Task
	}
	return out
}
