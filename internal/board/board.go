// Package board holds the dashboard's in-memory task list and its single
// edit draft. The list only changes in response to a server reply: Load
// with a fresh listing, Replace with an updated task, Remove after a
// confirmed delete.
package board

import "github.com/taskdeck/taskdeck/internal/api"

// Draft is the editable copy of a task's fields.
type Draft struct {
	Title       string
	Description string
}

// Board is an ordered task list with unique ids plus an optional edit focus.
// The zero value is an empty board.
type Board struct {
	tasks   []api.Task
	editing string // task id, "" when no task is being edited
	draft   Draft
}

// New returns a board loaded with tasks.
func New(tasks []api.Task) Board {
	var b Board
	b.Load(tasks)
	return b
}

// Load replaces the list with a server listing. If the listing repeats an
// id, the first occurrence wins. An edit on a task that is no longer
// listed is dropped.
func (b *Board) Load(tasks []api.Task) {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	b.tasks = out

	if _, ok := seen[b.editing]; !ok {
		b.CancelEdit()
	}
}

// Tasks returns a copy of the list in order.
func (b *Board) Tasks() []api.Task {
	return append([]api.Task(nil), b.tasks...)
}

// Len returns the number of tasks.
func (b *Board) Len() int {
	return len(b.tasks)
}

// At returns the i-th task.
func (b *Board) At(i int) api.Task {
	return b.tasks[i]
}

// Index returns the position of id, or -1.
func (b *Board) Index(id string) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the task with id.
func (b *Board) Get(id string) (api.Task, bool) {
	if i := b.Index(id); i >= 0 {
		return b.tasks[i], true
	}
	return api.Task{}, false
}

// Replace swaps in the server's representation of a task, matched by id.
// A task that is not on the board is ignored and Replace returns false.
func (b *Board) Replace(task api.Task) bool {
	i := b.Index(task.ID)
	if i < 0 {
		return false
	}
	tasks := b.Tasks()
	tasks[i] = task
	b.tasks = tasks
	return true
}

// Remove drops the task with id, keeping the order of the rest.
func (b *Board) Remove(id string) bool {
	i := b.Index(id)
	if i < 0 {
		return false
	}
	tasks := make([]api.Task, 0, len(b.tasks)-1)
	tasks = append(tasks, b.tasks[:i]...)
	tasks = append(tasks, b.tasks[i+1:]...)
	b.tasks = tasks

	if b.editing == id {
		b.CancelEdit()
	}
	return true
}

// BeginEdit focuses id and snapshots its fields into the draft. Any
// previous draft is discarded.
func (b *Board) BeginEdit(id string) bool {
	t, ok := b.Get(id)
	if !ok {
		return false
	}
	b.editing = id
	b.draft = Draft{Title: t.Title, Description: t.Description}
	return true
}

// Editing returns the focused task id.
func (b *Board) Editing() (string, bool) {
	return b.editing, b.editing != ""
}

// Draft returns the current edit draft.
func (b *Board) Draft() Draft {
	return b.draft
}

// SetDraft updates the draft. It is a no-op when nothing is being edited.
func (b *Board) SetDraft(d Draft) {
	if b.editing == "" {
		return
	}
	b.draft = d
}

// CancelEdit leaves edit mode without touching the list.
func (b *Board) CancelEdit() {
	b.editing = ""
	b.draft = Draft{}
}

// CommitEdit applies a successful update of id. The reply is stored under
// id whatever id the server echoed, so the list keeps unique ids. If id was
// the focused task, edit mode ends even when id is no longer listed.
func (b *Board) CommitEdit(id string, task api.Task) bool {
	if b.editing == id {
		b.CancelEdit()
	}
	task.ID = id
	return b.Replace(task)
}
