package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// SignupSubmitMsg is sent when the signup form passes validation.
type SignupSubmitMsg struct {
	Form form.Signup
}

// SignupModel is the view model for the signup screen.
type SignupModel struct {
	fields       fieldSet
	submitting   bool
	width        int
	height       int
	ctrlCPending bool
}

// NewSignupModel creates a SignupModel with the name field focused.
func NewSignupModel(width, height int) SignupModel {
	return SignupModel{
		fields: newFieldSet(
			newField(form.FieldName, "Name", "Ada Lovelace", false, width),
			newField(form.FieldEmail, "Email", "you@example.com", false, width),
			newField(form.FieldPassword, "Password", "at least 6 characters", true, width),
		),
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the signup view.
func (m SignupModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetCtrlCPending sets the Ctrl+C confirmation state.
func (m *SignupModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Submitting reports whether a signup request is in flight.
func (m SignupModel) Submitting() bool {
	return m.submitting
}

// Errors returns the current field messages.
func (m SignupModel) Errors() form.Errors {
	return m.fields.errors
}

// Fail re-enables the form and shows err beside the email field.
func (m *SignupModel) Fail(err error) {
	m.submitting = false
	m.fields.errors = form.Errors{form.FieldEmail: api.Message(err)}
}

// Update handles messages for the signup view.
func (m SignupModel) Update(msg tea.Msg) (SignupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case msg.String() == tui.KeyEnter:
			return m.submit()
		case msg.String() == tui.KeyTab || msg.String() == tui.KeyDown:
			return m, m.fields.next()
		case msg.String() == tui.KeyShiftTab || msg.String() == tui.KeyUp:
			return m, m.fields.prev()
		case msg.String() == tui.KeyEsc:
			return m, navigate(route.Route{Name: route.Home})
		case key.Matches(msg, tui.DefaultKeyMap.Switch):
			return m, navigate(route.Route{Name: route.Login})
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fields.setWidth(msg.Width)
		return m, nil
	}

	return m, m.fields.update(msg)
}

func (m SignupModel) submit() (SignupModel, tea.Cmd) {
	in := form.Signup{
		Name:     strings.TrimSpace(m.fields.value(form.FieldName)),
		Email:    strings.TrimSpace(m.fields.value(form.FieldEmail)),
		Password: m.fields.value(form.FieldPassword),
	}
	m.fields.errors = in.Validate()
	if !m.fields.errors.OK() {
		return m, nil
	}
	m.submitting = true
	return m, emit(SignupSubmitMsg{Form: in})
}

// View renders the signup view.
func (m SignupModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Create an account"))
	b.WriteString("\n\n")
	b.WriteString(m.fields.view())

	if m.submitting {
		b.WriteString(tui.WarningStyle.Render("Signing up..."))
	} else {
		b.WriteString(tui.SelectedStyle.Render("[ Sign up ]"))
	}
	b.WriteString("\n\n")

	b.WriteString(tui.DimStyle.Render("Enter: Submit    Tab: Next field    Ctrl+N: Log in instead    Esc: Back"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(ctrlCHint(m.ctrlCPending)))

	return tui.BoxStyle.
		Width(boxWidth(m.width)).
		Render(b.String())
}
