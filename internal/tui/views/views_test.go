package views

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/testutil"
	"github.com/taskdeck/taskdeck/internal/tui"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// msgOf runs cmd and returns its message, or nil.
func msgOf(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestLoginEmptySubmitShowsRequired(t *testing.T) {
	m := NewLoginModel(80, 24)

	m, cmd := m.Update(keyEnter)
	if cmd != nil {
		t.Errorf("invalid form should not submit, got %T", msgOf(cmd))
	}
	if m.Submitting() {
		t.Error("submitting set on invalid form")
	}
	errs := m.Errors()
	if errs[form.FieldEmail] != "Required" || errs[form.FieldPassword] != "Required" {
		t.Errorf("errors = %v", errs)
	}
}

func TestLoginSubmitDisablesForm(t *testing.T) {
	m := NewLoginModel(80, 24)
	m, _ = m.Update(runes(" a@b.com "))
	m, _ = m.Update(keyTab)
	m, _ = m.Update(runes("secret1"))

	m, cmd := m.Update(keyEnter)
	submit, ok := msgOf(cmd).(LoginSubmitMsg)
	if !ok {
		t.Fatalf("got %T, want LoginSubmitMsg", msgOf(cmd))
	}
	if submit.Form.Email != "a@b.com" {
		t.Errorf("email = %q, want trimmed", submit.Form.Email)
	}
	if !m.Submitting() {
		t.Fatal("form should be disabled while submitting")
	}

	// A second enter while the request is in flight is ignored.
	if _, cmd := m.Update(keyEnter); cmd != nil {
		t.Error("submit while submitting should be ignored")
	}

	m.Fail(&api.Error{Code: api.CodeUnauthorized, Message: "Invalid email or password"})
	if m.Submitting() {
		t.Error("Fail should re-enable the form")
	}
	if got := m.Errors()[form.FieldEmail]; got != "Invalid email or password" {
		t.Errorf("email error = %q", got)
	}
	if !strings.Contains(m.View(), "Invalid email or password") {
		t.Error("view should show the failure beside the field")
	}
}

func TestLoginSwitchToSignup(t *testing.T) {
	m := NewLoginModel(80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	nav, ok := msgOf(cmd).(tui.NavigateMsg)
	if !ok || nav.To.Name != route.Signup {
		t.Errorf("got %#v, want navigate to signup", msgOf(cmd))
	}
}

func TestSignupValidation(t *testing.T) {
	m := NewSignupModel(80, 24)
	m, _ = m.Update(runes("   "))
	m, _ = m.Update(keyTab)
	m, _ = m.Update(runes("bad"))
	m, _ = m.Update(keyTab)
	m, _ = m.Update(runes("12345"))

	m, cmd := m.Update(keyEnter)
	if cmd != nil {
		t.Fatal("invalid signup should not submit")
	}
	want := form.Errors{
		form.FieldName:     "Name is required",
		form.FieldEmail:    "Invalid email",
		form.FieldPassword: "Password must be at least 6 characters",
	}
	for field, msg := range want {
		if got := m.Errors()[field]; got != msg {
			t.Errorf("%s error = %q, want %q", field, got, msg)
		}
	}
}

func TestHomeNavigation(t *testing.T) {
	m := NewHomeModel(false, 80, 24)

	_, cmd := m.Update(runes("l"))
	if nav, ok := msgOf(cmd).(tui.NavigateMsg); !ok || nav.To.Name != route.Login {
		t.Errorf("l: got %#v", msgOf(cmd))
	}
	_, cmd = m.Update(runes("s"))
	if nav, ok := msgOf(cmd).(tui.NavigateMsg); !ok || nav.To.Name != route.Signup {
		t.Errorf("s: got %#v", msgOf(cmd))
	}
	if _, cmd = m.Update(keyEnter); cmd != nil {
		t.Error("enter should do nothing when signed out")
	}

	m = NewHomeModel(true, 80, 24)
	_, cmd = m.Update(keyEnter)
	if nav, ok := msgOf(cmd).(tui.NavigateMsg); !ok || nav.To.Name != route.Dashboard {
		t.Errorf("enter: got %#v", msgOf(cmd))
	}
}

func loadedDashboard() DashboardModel {
	m := NewDashboardModel(80, 24)
	m.Loaded(testutil.Ada, testutil.SampleTasks())
	return m
}

func TestDashboardIgnoresKeysWhileLoading(t *testing.T) {
	m := NewDashboardModel(80, 24)
	if !m.Loading() {
		t.Fatal("new dashboard should be loading")
	}
	if _, cmd := m.Update(runes("n")); cmd != nil {
		t.Error("keys should be ignored while loading")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("loading view should say so")
	}
}

func TestDashboardEmptyState(t *testing.T) {
	m := NewDashboardModel(80, 24)
	m.Loaded(testutil.Ada, nil)
	if !strings.Contains(m.View(), "No tasks found") {
		t.Error("empty board should show the empty state")
	}
	if !strings.Contains(m.View(), "Hello, Ada") {
		t.Error("header should greet the user")
	}
}

func TestDashboardDeleteNeedsConfirmation(t *testing.T) {
	m := loadedDashboard()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := m.Update(runes("d"))
	if cmd != nil {
		t.Fatal("d should only ask for confirmation")
	}
	if id, ok := m.Confirming(); !ok || id != "t2" {
		t.Fatalf("confirming = %q", id)
	}
	if !strings.Contains(m.View(), "Are you sure") {
		t.Error("view should show the prompt")
	}

	m, cmd = m.Update(runes("y"))
	del, ok := msgOf(cmd).(DeleteTaskMsg)
	if !ok || del.ID != "t2" || del.Title != "Review PR" {
		t.Fatalf("got %#v", msgOf(cmd))
	}

	m.Deleted("t2")
	if addrOf(m.Board()).Len() != 2 || addrOf(m.Board()).Index("t2") != -1 {
		t.Errorf("t2 should be gone: %v", addrOf(m.Board()).Tasks())
	}
}

func TestDashboardCursorClampsAfterDelete(t *testing.T) {
	m := loadedDashboard()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor() != 2 {
		t.Fatalf("cursor = %d", m.Cursor())
	}

	m.Deleted("t3")
	if m.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor())
	}
}

func TestDashboardDeleteFailureKeepsTask(t *testing.T) {
	m := loadedDashboard()
	m, _ = m.Update(runes("d"))
	m, _ = m.Update(runes("y"))

	m.DeleteFailed("t1")
	if addrOf(m.Board()).Len() != 3 {
		t.Errorf("board has %d tasks", addrOf(m.Board()).Len())
	}
	if _, ok := m.Confirming(); ok {
		t.Error("confirmation should be closed")
	}
}

func TestDashboardEditLifecycle(t *testing.T) {
	m := loadedDashboard()

	m, _ = m.Update(runes("e"))
	id, editing := addrOf(m.Board()).Editing()
	if !editing || id != "t1" {
		t.Fatalf("editing = %q %v", id, editing)
	}
	if d := addrOf(m.Board()).Draft(); d.Title != "Write report" || d.Description != "d" {
		t.Errorf("draft = %+v", d)
	}

	m, _ = m.Update(runes("!"))
	if got := addrOf(m.Board()).Draft().Title; got != "Write report!" {
		t.Errorf("draft title = %q", got)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	save, ok := msgOf(cmd).(SaveTaskMsg)
	if !ok || save.ID != "t1" || save.Input.Title != "Write report!" {
		t.Fatalf("got %#v", msgOf(cmd))
	}

	m.UpdateFailed()
	if _, editing := addrOf(m.Board()).Editing(); !editing {
		t.Fatal("failure should keep the editor open")
	}

	updated := addrOf(m.Board()).At(0)
	updated.Title = "Write report!"
	updated.ID = ""
	if !m.Updated("t1", updated) {
		t.Fatal("Updated = false")
	}
	if _, editing := addrOf(m.Board()).Editing(); editing {
		t.Error("success should close the editor")
	}
	if got := addrOf(m.Board()).At(0); got.ID != "t1" || got.Title != "Write report!" {
		t.Errorf("At(0) = %+v", got)
	}
}

func TestDashboardEditCancel(t *testing.T) {
	m := loadedDashboard()
	m, _ = m.Update(runes("e"))
	m, _ = m.Update(runes("xyz"))
	m, _ = m.Update(keyEsc)

	if _, editing := addrOf(m.Board()).Editing(); editing {
		t.Error("esc should cancel the edit")
	}
	if got := addrOf(m.Board()).At(0).Title; got != "Write report" {
		t.Errorf("title = %q", got)
	}
}

func TestDashboardShortcuts(t *testing.T) {
	m := loadedDashboard()

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"n", tui.NavigateMsg{To: route.Route{Name: route.CreateTask}}},
		{"o", tui.NavigateMsg{To: route.Task("t1")}},
		{"r", RefreshMsg{}},
		{"x", LogoutMsg{}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(runes(tt.key))
		if got := msgOf(cmd); got != tt.want {
			t.Errorf("%s: got %#v, want %#v", tt.key, got, tt.want)
		}
	}
}

func TestTaskFormTrimsAndSubmits(t *testing.T) {
	m := NewTaskFormModel(80, 24)
	m, _ = m.Update(runes("  Ship  "))
	m, _ = m.Update(keyTab)
	m, _ = m.Update(runes(" notes "))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	sub, ok := msgOf(cmd).(CreateTaskSubmitMsg)
	if !ok {
		t.Fatalf("got %T", msgOf(cmd))
	}
	if sub.Input.Title != "Ship" || sub.Input.Description != "notes" {
		t.Errorf("input = %+v", sub.Input)
	}
	if !m.Submitting() {
		t.Error("form should be disabled while submitting")
	}

	m.Fail(errors.New("boom"))
	if got := m.Errors()[form.FieldTitle]; got != "boom" {
		t.Errorf("title error = %q", got)
	}
}

func TestEditTaskLoadFailure(t *testing.T) {
	m := NewEditTaskModel("t9", 80, 24)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Error("cannot submit while loading")
	}

	m.LoadFailed()
	if !strings.Contains(m.View(), "Error loading task") {
		t.Error("view should show the load error")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("blank title should not submit")
	}
	if got := m.Errors()[form.FieldTitle]; got != "Task title is required" {
		t.Errorf("title error = %q", got)
	}
}

func TestEditTaskSubmitCarriesID(t *testing.T) {
	m := NewEditTaskModel("t2", 80, 24)
	m.Loaded(testutil.SampleTasks()[1])
	if got := m.Values().Title; got != "Review PR" {
		t.Fatalf("title = %q", got)
	}

	_, cmd := m.Update(keyEnter)
	sub, ok := msgOf(cmd).(UpdateTaskSubmitMsg)
	if !ok || sub.ID != "t2" || sub.Input.Title != "Review PR" || sub.Input.Description != "backend" {
		t.Errorf("got %#v", msgOf(cmd))
	}
}

// addrOf returns a pointer to a copy of v so pointer-receiver methods can be
// called on non-addressable values such as accessor results.
func addrOf[T any](v T) *T { return &v }
