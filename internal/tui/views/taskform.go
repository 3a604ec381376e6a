package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// CreateTaskSubmitMsg is sent when the create form passes validation.
type CreateTaskSubmitMsg struct {
	Input api.TaskInput
}

// TaskFormModel is the view model for the create-task screen.
type TaskFormModel struct {
	fields       taskFields
	submitting   bool
	width        int
	height       int
	ctrlCPending bool
}

// NewTaskFormModel creates an empty TaskFormModel.
func NewTaskFormModel(width, height int) TaskFormModel {
	return TaskFormModel{
		fields: newTaskFields(width, 5),
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the task form.
func (m TaskFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetCtrlCPending sets the Ctrl+C confirmation state.
func (m *TaskFormModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Submitting reports whether a create request is in flight.
func (m TaskFormModel) Submitting() bool {
	return m.submitting
}

// Errors returns the current field messages.
func (m TaskFormModel) Errors() form.Errors {
	return m.fields.errors
}

// Fail re-enables the form and attaches err to the title field.
func (m *TaskFormModel) Fail(err error) {
	m.submitting = false
	m.fields.errors = form.Errors{form.FieldTitle: api.Message(err)}
}

// Update handles messages for the task form.
func (m TaskFormModel) Update(msg tea.Msg) (TaskFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
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
		case tui.KeyEsc:
			return m, navigate(route.Route{Name: route.Dashboard})
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fields.setWidth(msg.Width)
		return m, nil
	}

	return m, m.fields.update(msg)
}

func (m TaskFormModel) submit() (TaskFormModel, tea.Cmd) {
	in := m.fields.values().Normalize()
	m.fields.errors = in.Validate()
	if !m.fields.errors.OK() {
		return m, nil
	}
	m.submitting = true
	return m, emit(CreateTaskSubmitMsg{Input: api.TaskInput{Title: in.Title, Description: in.Description}})
}

// View renders the task form.
func (m TaskFormModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("New task"))
	b.WriteString("\n\n")
	b.WriteString(m.fields.view())
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(tui.WarningStyle.Render("Creating..."))
	} else {
		b.WriteString(tui.SelectedStyle.Render("[ Add task ]"))
	}
	b.WriteString("\n\n")

	b.WriteString(tui.DimStyle.Render("Ctrl+S: Save    Tab: Switch field    Esc: Back to dashboard"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(ctrlCHint(m.ctrlCPending)))

	return tui.BoxStyle.
		Width(boxWidth(m.width)).
		Render(b.String())
}
