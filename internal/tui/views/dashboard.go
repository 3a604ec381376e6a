package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SaveTaskMsg is sent when an inline edit is saved.
type SaveTaskMsg struct {
	ID    string
	Input api.TaskInput
}

// DeleteTaskMsg is sent once the user confirmed a delete.
type DeleteTaskMsg struct {
	ID    string
	Title string
}

// RefreshMsg asks the app to reload the dashboard.
type RefreshMsg struct{}

// LogoutMsg asks the app to end the session.
type LogoutMsg struct{}

// ============================================================================
// DashboardModel
// ============================================================================

// maxVisibleTasks bounds how many rows are drawn at once.
const maxVisibleTasks = 8

// DashboardModel is the view model for the task list.
type DashboardModel struct {
	loading bool
	user    api.User
	board   board.Board
	cursor  int

	// confirming is the task awaiting a y/n delete answer.
	confirming string
	// deleting is the task whose delete request is in flight.
	deleting string
	// saving is set while an inline edit is being submitted.
	saving bool

	editor  taskFields
	spinner spinner.Model

	width        int
	height       int
	ctrlCPending bool
}

// NewDashboardModel creates a DashboardModel in loading state.
func NewDashboardModel(width, height int) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.SelectedStyle

	return DashboardModel{
		loading: true,
		editor:  newTaskFields(width, 3),
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init starts the loading spinner.
func (m DashboardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetCtrlCPending sets the Ctrl+C confirmation state.
func (m *DashboardModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Loading reports whether the initial fetch is outstanding.
func (m DashboardModel) Loading() bool {
	return m.loading
}

// Board returns the current task board.
func (m DashboardModel) Board() board.Board {
	return m.board
}

// User returns the profile shown in the header.
func (m DashboardModel) User() api.User {
	return m.user
}

// Cursor returns the selected row.
func (m DashboardModel) Cursor() int {
	return m.cursor
}

// Confirming returns the task awaiting delete confirmation, if any.
func (m DashboardModel) Confirming() (string, bool) {
	return m.confirming, m.confirming != ""
}

// EditorErrors returns the inline editor's field messages.
func (m DashboardModel) EditorErrors() form.Errors {
	return m.editor.errors
}

// Reloading puts the view back into loading state for a refresh.
func (m *DashboardModel) Reloading() tea.Cmd {
	m.loading = true
	return m.spinner.Tick
}

// Loaded installs the fetched profile and tasks.
func (m *DashboardModel) Loaded(user api.User, tasks []api.Task) {
	m.loading = false
	m.user = user
	m.board.Load(tasks)
	m.clampCursor()
	if _, editing := m.board.Editing(); !editing {
		m.saving = false
	}
}

// Updated applies a successful inline save of id. It reports false when
// id is no longer on the board.
func (m *DashboardModel) Updated(id string, task api.Task) bool {
	m.saving = false
	return m.board.CommitEdit(id, task)
}

// UpdateFailed re-enables the inline editor. The draft is kept.
func (m *DashboardModel) UpdateFailed() {
	m.saving = false
}

// Deleted removes a task after the server confirmed the delete.
func (m *DashboardModel) Deleted(id string) {
	if m.deleting == id {
		m.deleting = ""
	}
	m.board.Remove(id)
	m.clampCursor()
}

// DeleteFailed clears the in-flight marker; the list is untouched.
func (m *DashboardModel) DeleteFailed(id string) {
	if m.deleting == id {
		m.deleting = ""
	}
}

func (m *DashboardModel) clampCursor() {
	if m.cursor >= m.board.Len() {
		m.cursor = m.board.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m DashboardModel) selected() (api.Task, bool) {
	if m.board.Len() == 0 {
		return api.Task{}, false
	}
	return m.board.At(m.cursor), true
}

// Update handles messages for the dashboard view.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.setWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.confirming != "" {
			return m.updateConfirm(msg)
		}
		if _, editing := m.board.Editing(); editing {
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}

	if _, editing := m.board.Editing(); editing && !m.saving {
		cmd := m.editor.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DashboardModel) updateList(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	keys := tui.DefaultKeyMap
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < m.board.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Create):
		return m, navigate(route.Route{Name: route.CreateTask})
	case key.Matches(msg, keys.Refresh):
		return m, emit(RefreshMsg{})
	case key.Matches(msg, keys.Logout):
		return m, emit(LogoutMsg{})
	case key.Matches(msg, keys.Open):
		if t, ok := m.selected(); ok {
			return m, navigate(route.Task(t.ID))
		}
	case key.Matches(msg, keys.Edit):
		if t, ok := m.selected(); ok && m.board.BeginEdit(t.ID) {
			d := m.board.Draft()
			m.editor.set(d.Title, d.Description)
			m.editor.errors = form.Errors{}
			return m, m.editor.focusAt(focusTitle)
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok && m.deleting == "" {
			m.confirming = t.ID
		}
	}
	return m, nil
}

func (m DashboardModel) updateConfirm(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	keys := tui.DefaultKeyMap
	switch {
	case key.Matches(msg, keys.Confirm):
		id := m.confirming
		m.confirming = ""
		t, ok := m.board.Get(id)
		if !ok {
			return m, nil
		}
		m.deleting = id
		return m, emit(DeleteTaskMsg{ID: id, Title: t.Title})
	case key.Matches(msg, keys.Deny):
		m.confirming = ""
	}
	return m, nil
}

func (m DashboardModel) updateEdit(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	switch msg.String() {
	case tui.KeyEsc:
		m.board.CancelEdit()
		m.editor.errors = form.Errors{}
		return m, nil
	case tui.KeyCtrlS:
		return m.save()
	case tui.KeyTab, tui.KeyShiftTab:
		return m, m.editor.toggle()
	}

	cmd := m.editor.update(msg)
	v := m.editor.values()
	m.board.SetDraft(board.Draft{Title: v.Title, Description: v.Description})
	return m, cmd
}

func (m DashboardModel) save() (DashboardModel, tea.Cmd) {
	id, ok := m.board.Editing()
	if !ok {
		return m, nil
	}
	d := m.board.Draft()
	in := form.Task{Title: d.Title, Description: d.Description}.Normalize()
	m.editor.errors = in.Validate()
	if !m.editor.errors.OK() {
		return m, nil
	}
	m.saving = true
	return m, emit(SaveTaskMsg{
		ID:    id,
		Input: api.TaskInput{Title: in.Title, Description: in.Description},
	})
}

// View renders the dashboard view.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(tui.TitleStyle.Render("Task Dashboard"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " Loading...")
		return tui.BoxStyle.Width(boxWidth(m.width)).Render(b.String())
	}

	name := m.user.Name
	if name == "" {
		name = "User"
	}
	b.WriteString(tui.TitleStyle.Render("Task Dashboard"))
	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("    Hello, %s", name)))
	b.WriteString("\n\n")

	if m.board.Len() == 0 {
		b.WriteString(tui.DimStyle.Render("No tasks found. Create your first task!"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderTasks())
	}

	b.WriteString(m.renderFooter())

	return tui.BoxStyle.
		Width(boxWidth(m.width)).
		Render(b.String())
}

func (m DashboardModel) renderTasks() string {
	var b strings.Builder

	start := 0
	if m.cursor >= maxVisibleTasks {
		start = m.cursor - maxVisibleTasks + 1
	}
	end := start + maxVisibleTasks
	if end > m.board.Len() {
		end = m.board.Len()
	}

	editingID, editing := m.board.Editing()
	for i := start; i < end; i++ {
		t := m.board.At(i)

		if editing && t.ID == editingID {
			editor := m.editor.view()
			if m.saving {
				editor += tui.WarningStyle.Render("Saving...")
			}
			b.WriteString(tui.EditBoxStyle.Render(strings.TrimRight(editor, "\n")))
			b.WriteString("\n")
			continue
		}

		marker := tui.Bullet
		title := t.Title
		if i == m.cursor {
			marker = tui.Cursor
			title = tui.SelectedStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %s", marker, title))
		if m.deleting == t.ID {
			b.WriteString(tui.WarningStyle.Render("  deleting..."))
		}
		b.WriteString("\n")
		if t.Description != "" {
			b.WriteString(tui.DimStyle.Render("    " + t.Description))
			b.WriteString("\n")
		}
		if !t.CreatedAt.IsZero() {
			b.WriteString(tui.DimStyle.Render("    Created " + t.CreatedAt.Local().Format("Jan 02, 2006 15:04")))
			b.WriteString("\n")
		}
	}

	if m.board.Len() > maxVisibleTasks {
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, m.board.Len())))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m DashboardModel) renderFooter() string {
	if m.confirming != "" {
		t, _ := m.board.Get(m.confirming)
		return tui.WarningStyle.Render(fmt.Sprintf("Are you sure you want to delete %q? (y/n)", t.Title))
	}
	if _, editing := m.board.Editing(); editing {
		return tui.DimStyle.Render("Ctrl+S: Save    Tab: Switch field    Esc: Cancel")
	}
	return tui.StatusBarStyle.Render("↑/↓: Move    e: Edit    d: Delete    enter: Open    n: New task    r: Refresh    x: Log out") +
		"\n" + tui.DimStyle.Render(ctrlCHint(m.ctrlCPending))
}
