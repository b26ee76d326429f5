package todo

// Draft holds the form fields of a task that is being built or edited.
// A draft created by EditAt remembers the task it came from so that it can
// be resubmitted under the same id or restored on cancel.
type Draft struct {
	Title       string
	Description string
	DueDate     string
	Priority    Priority
	Category    Category

	// Origin is the task the draft was opened from, nil for a new task.
	Origin *Task
	// OriginIndex is Origin's position in the active list when it was removed.
	OriginIndex int
}

// NewDraft returns an empty draft with default priority and category.
func NewDraft() Draft {
	return Draft{
		Priority:    DefaultPriority,
		Category:    DefaultCategory,
		OriginIndex: -1,
	}
}

// DraftFrom copies the task's fields into a draft.
func DraftFrom(t Task, index int) Draft {
	origin := t
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		Origin:      &origin,
		OriginIndex: index,
	}
}

// Editing reports whether the draft came from an existing task.
func (d Draft) Editing() bool {
	return d.Origin != nil
}

// Task builds a task from the draft fields.
// An edited draft keeps the id of its origin.
func (d Draft) Task() Task {
	t := Task{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Category:    d.Category,
	}
	if d.Origin != nil {
		t.ID = d.Origin.ID
	}
	return t
}
