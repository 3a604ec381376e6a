package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// UpdateTaskSubmitMsg is sent when the edit screen passes validation.
type UpdateTaskSubmitMsg struct {
	ID    string
	Input api.TaskInput
}

// loadErrorMessage is shown when the task could not be fetched. The form
// stays usable with empty fields.
const loadErrorMessage = "Error loading task"

// EditTaskModel is the view model for the full-screen task editor.
type EditTaskModel struct {
	id           string
	loading      bool
	loadErr      string
	fields       taskFields
	spinner      spinner.Model
	submitting   bool
	width        int
	height       int
	ctrlCPending bool
}

// NewEditTaskModel creates an EditTaskModel for task id in loading state.
func NewEditTaskModel(id string, width, height int) EditTaskModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.SelectedStyle

	return EditTaskModel{
		id:      id,
		loading: true,
		fields:  newTaskFields(width, 5),
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init starts the loading spinner.
func (m EditTaskModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetCtrlCPending sets the Ctrl+C confirmation state.
func (m *EditTaskModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// ID returns the task being edited.
func (m EditTaskModel) ID() string {
	return m.id
}

// Loading reports whether the task is still being fetched.
func (m EditTaskModel) Loading() bool {
	return m.loading
}

// Submitting reports whether an update request is in flight.
func (m EditTaskModel) Submitting() bool {
	return m.submitting
}

// Errors returns the current field messages.
func (m EditTaskModel) Errors() form.Errors {
	return m.fields.errors
}

// Values returns the current form contents.
func (m EditTaskModel) Values() form.Task {
	return m.fields.values()
}

// Loaded fills the form with the fetched task.
func (m *EditTaskModel) Loaded(task api.Task) {
	m.loading = false
	m.loadErr = ""
	m.fields.set(task.Title, task.Description)
}

// LoadFailed leaves the form empty and shows the load error.
func (m *EditTaskModel) LoadFailed() {
	m.loading = false
	m.loadErr = loadErrorMessage
}

// Fail re-enables the form and attaches err to the title field.
func (m *EditTaskModel) Fail(err error) {
	m.submitting = false
	m.fields.errors = form.Errors{form.FieldTitle: api.Message(err)}
}

// Update handles messages for the edit screen.
func (m EditTaskModel) Update(msg tea.Msg) (EditTaskModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == tui.KeyEsc {
			return m, navigate(route.Route{Name: route.Dashboard})
		}
		if m.loading || m.submitting {
			return m, nil
		}
		switch msg.String() {
		case tui.KeyCtrlS:
			return m.submit()
		case tui.KeyEnter:
			if m.fields.focus == focusTitle {
				return m.submit()
			}
		case tui.KeyTab, tui.KeyShiftTab:
			return m, m.fields.toggle()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fields.setWidth(msg.Width)
		return m, nil
	}

	if m.loading {
		return m, nil
	}
	return m, m.fields.update(msg)
}

func (m EditTaskModel) submit() (EditTaskModel, tea.Cmd) {
	in := m.fields.values().Normalize()
	m.fields.errors = in.Validate()
	if !m.fields.errors.OK() {
		return m, nil
	}
	m.submitting = true
	return m, emit(UpdateTaskSubmitMsg{
		ID:    m.id,
		Input: api.TaskInput{Title: in.Title, Description: in.Description},
	})
}

// View renders the edit screen.
func (m EditTaskModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Edit task"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading task...")
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("Esc: Back to dashboard"))
		return tui.BoxStyle.Width(boxWidth(m.width)).Render(b.String())
	}

	if m.loadErr != "" {
		b.WriteString(tui.ErrorStyle.Render(m.loadErr))
		b.WriteString("\n\n")
	}

	b.WriteString(m.fields.view())
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(tui.WarningStyle.Render("Saving..."))
	} else {
		b.WriteString(tui.SelectedStyle.Render("[ Update task ]"))
	}
	b.WriteString("\n\n")

	b.WriteString(tui.DimStyle.Render("Ctrl+S: Save    Tab: Switch field    Esc: Back to dashboard"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(ctrlCHint(m.ctrlCPending)))

	return tui.BoxStyle.
		Width(boxWidth(m.width)).
		Render(b.String())
}
