package todo

import (
	"errors"
	"fmt"
	"testing"
)

func newTestList(t *testing.T, titles ...string) *List {
	t.Helper()
	l := NewList(nil)
	for _, title := range titles {
		if _, err := l.Add(Task{Title: title, Description: "desc " + title}); err != nil {
			t.Fatalf("Add(%q) failed: %v", title, err)
		}
	}
	return l
}

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	want := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		want = append(want, fmt.Sprintf("task %02d", i))
	}
	l := newTestList(t, want...)

	if got := titles(l.Tasks()); !equalStrings(got, want) {
		t.Errorf("Tasks() = %v, want %v", got, want)
	}
}

func TestAddAppliesDefaultsAndID(t *testing.T) {
	l := NewList(nil)
	task, err := l.Add(Task{Title: "  Write report ", Description: "Q3"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want Medium", task.Priority)
	}
	if task.Category != CategoryWork {
		t.Errorf("Category = %q, want Work", task.Category)
	}
	if task.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if task.Title != "Write report" {
		t.Errorf("Title = %q, want trimmed title", task.Title)
	}
}

func TestAddRejectsInvalidTask(t *testing.T) {
	l := newTestList(t, "A")
	_, err := l.Add(Task{Title: "", Description: ""})
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("Add() error = %v, want ErrInvalidTask", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestAddReplacesDuplicateID(t *testing.T) {
	l := NewList(nil)
	first, _ := l.Add(Task{ID: "fixed", Title: "A", Description: "a"})
	second, err := l.Add(Task{ID: "fixed", Title: "B", Description: "b"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID != "fixed" {
		t.Errorf("first.ID = %q, want fixed", first.ID)
	}
	if second.ID == "fixed" {
		t.Error("expected duplicate id to be replaced")
	}
}

func TestDeleteAt(t *testing.T) {
	l := newTestList(t, "A", "B", "C")

	removed, ok := l.DeleteAt(1)
	if !ok {
		t.Fatal("DeleteAt(1) returned false")
	}
	if removed.Title != "B" {
		t.Errorf("removed %q, want B", removed.Title)
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"A", "C"}) {
		t.Errorf("Tasks() = %v, want [A C]", got)
	}
}

func TestDeleteAtOutOfRange(t *testing.T) {
	l := newTestList(t, "A", "B")
	for _, index := range []int{-1, 2, 100} {
		if _, ok := l.DeleteAt(index); ok {
			t.Errorf("DeleteAt(%d) returned true", index)
		}
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestDeleteAtEveryPosition(t *testing.T) {
	all := []string{"A", "B", "C", "D", "E"}
	for i := range all {
		l := newTestList(t, all...)
		if _, ok := l.DeleteAt(i); !ok {
			t.Fatalf("DeleteAt(%d) returned false", i)
		}
		want := append(append([]string{}, all[:i]...), all[i+1:]...)
		if got := titles(l.Tasks()); !equalStrings(got, want) {
			t.Errorf("after DeleteAt(%d): %v, want %v", i, got, want)
		}
	}
}

func TestCompleteAt(t *testing.T) {
	l := newTestList(t, "A", "B")
	a, _ := l.At(0)

	done, ok := l.CompleteAt(0)
	if !ok {
		t.Fatal("CompleteAt(0) returned false")
	}
	if done != a {
		t.Errorf("completed %+v, want %+v", done, a)
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"B"}) {
		t.Errorf("active = %v, want [B]", got)
	}
	completed := l.Completed()
	if len(completed) != 1 || completed[0] != a {
		t.Errorf("completed = %+v, want [%+v]", completed, a)
	}
}

func TestCompleteAtOutOfRange(t *testing.T) {
	l := newTestList(t, "A")
	if _, ok := l.CompleteAt(3); ok {
		t.Error("CompleteAt(3) returned true")
	}
	if len(l.Completed()) != 0 {
		t.Error("completed list should stay empty")
	}
}

func TestEditAtRemovesAndFillsDraft(t *testing.T) {
	l := NewList(nil)
	l.Add(Task{Title: "A", Description: "a"})
	target, _ := l.Add(Task{Title: "B", Description: "b", DueDate: "2024-05-01", Priority: PriorityHigh, Category: CategoryUrgent})
	l.Add(Task{Title: "C", Description: "c"})

	draft, ok := l.EditAt(1)
	if !ok {
		t.Fatal("EditAt(1) returned false")
	}
	if draft.Title != "B" || draft.Description != "b" || draft.DueDate != "2024-05-01" ||
		draft.Priority != PriorityHigh || draft.Category != CategoryUrgent {
		t.Errorf("draft = %+v, want fields of B", draft)
	}
	if !draft.Editing() || draft.Origin.ID != target.ID || draft.OriginIndex != 1 {
		t.Errorf("draft origin = %+v/%d, want %s/1", draft.Origin, draft.OriginIndex, target.ID)
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"A", "C"}) {
		t.Errorf("active = %v, want [A C]", got)
	}
}

func TestEditAtWhileEditing(t *testing.T) {
	l := newTestList(t, "A", "B")
	if _, ok := l.EditAt(0); !ok {
		t.Fatal("first EditAt returned false")
	}
	if _, ok := l.EditAt(0); ok {
		t.Fatal("second EditAt should be refused while an edit is open")
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"B"}) {
		t.Errorf("active = %v, want [B]", got)
	}

	task, restored := l.CancelDraft()
	if !restored || task.Title != "A" {
		t.Fatalf("CancelDraft = %+v, %v; want A restored", task, restored)
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"A", "B"}) {
		t.Errorf("active = %v, want [A B]", got)
	}

	if _, ok := l.EditAt(1); !ok {
		t.Error("EditAt after cancel returned false")
	}
}

func TestSubmitDraftAfterEdit(t *testing.T) {
	l := newTestList(t, "A", "B", "C")
	original, _ := l.At(0)

	draft, _ := l.EditAt(0)
	draft.Title = "A2"
	l.SetDraft(draft)

	task, err := l.SubmitDraft()
	if err != nil {
		t.Fatalf("SubmitDraft failed: %v", err)
	}
	if task.ID != original.ID {
		t.Errorf("resubmitted id = %q, want %q", task.ID, original.ID)
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"B", "C", "A2"}) {
		t.Errorf("active = %v, want [B C A2]", got)
	}
	if l.Draft().Editing() || l.Draft().Title != "" {
		t.Errorf("draft not reset: %+v", l.Draft())
	}
}

func TestSubmitDraftInvalidKeepsDraft(t *testing.T) {
	l := NewList(nil)
	l.SetDraft(Draft{Title: "only title", Priority: PriorityLow, Category: CategoryWork})

	if _, err := l.SubmitDraft(); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("SubmitDraft() error = %v, want ErrInvalidTask", err)
	}
	if l.Draft().Title != "only title" {
		t.Errorf("draft was reset: %+v", l.Draft())
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
}

func TestCancelDraftRestoresEditedTask(t *testing.T) {
	l := newTestList(t, "A", "B", "C")
	before := l.Tasks()

	if _, ok := l.EditAt(1); !ok {
		t.Fatal("EditAt(1) returned false")
	}
	restored, ok := l.CancelDraft()
	if !ok {
		t.Fatal("CancelDraft returned false")
	}
	if restored != before[1] {
		t.Errorf("restored %+v, want %+v", restored, before[1])
	}
	after := l.Tasks()
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("position %d = %+v, want %+v", i, after[i], before[i])
		}
	}
}

func TestCancelDraftForNewTask(t *testing.T) {
	l := newTestList(t, "A")
	l.SetDraft(Draft{Title: "unsaved"})
	if _, ok := l.CancelDraft(); ok {
		t.Error("CancelDraft on a new draft should not restore anything")
	}
	if l.Draft().Title != "" || l.Draft().Priority != DefaultPriority {
		t.Errorf("draft not reset: %+v", l.Draft())
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestFilter(t *testing.T) {
	l := NewList(nil)
	if _, err := l.Add(Task{Title: "Buy milk", Description: "2%", DueDate: "2024-01-01", Priority: PriorityLow, Category: CategoryPersonal}); err != nil {
		t.Fatal(err)
	}

	got := l.Filter("milk")
	if len(got) != 1 || got[0].Title != "Buy milk" {
		t.Errorf("Filter(milk) = %v", got)
	}
	if got := l.Filter("bread"); len(got) != 0 {
		t.Errorf("Filter(bread) = %v, want empty", got)
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	l := newTestList(t, "Buy Milk", "Call mom", "MILKSHAKE", "Bread")

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Buy Milk", "Call mom", "MILKSHAKE", "Bread"}},
		{"milk", []string{"Buy Milk", "MILKSHAKE"}},
		{"MOM", []string{"Call mom"}},
		{"xyz", []string{}},
	}
	for _, tt := range tests {
		if got := titles(l.Filter(tt.term)); !equalStrings(got, tt.want) {
			t.Errorf("Filter(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestSearchKeepsPositions(t *testing.T) {
	l := newTestList(t, "alpha", "beta", "alphabet")
	entries := l.Search("alpha")
	if len(entries) != 2 {
		t.Fatalf("Search = %v, want 2 entries", entries)
	}
	if entries[0].Index != 0 || entries[1].Index != 2 {
		t.Errorf("indices = %d,%d, want 0,2", entries[0].Index, entries[1].Index)
	}
}

func TestIDAddressedOperations(t *testing.T) {
	l := newTestList(t, "A", "B", "C")
	b, _ := l.At(1)

	// Shift positions so that index 1 no longer refers to B.
	l.DeleteAt(0)

	if got := l.IndexOf(b.ID); got != 0 {
		t.Fatalf("IndexOf(B) = %d, want 0", got)
	}
	done, ok := l.Complete(b.ID)
	if !ok || done.Title != "B" {
		t.Fatalf("Complete(B) = %+v, %v", done, ok)
	}
	if _, ok := l.Delete(b.ID); ok {
		t.Error("Delete of a completed id should be a no-op")
	}
	if _, ok := l.Edit("missing"); ok {
		t.Error("Edit(missing) returned true")
	}
	if got := titles(l.Tasks()); !equalStrings(got, []string{"C"}) {
		t.Errorf("active = %v, want [C]", got)
	}
}
