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

// LoginSubmitMsg is sent when the login form passes validation.
type LoginSubmitMsg struct {
	Form form.Login
}

// LoginModel is the view model for the login screen.
type LoginModel struct {
	fields       fieldSet
	submitting   bool
	width        int
	height       int
	ctrlCPending bool
}

// NewLoginModel creates a LoginModel with the email field focused.
func NewLoginModel(width, height int) LoginModel {
	return LoginModel{
		fields: newFieldSet(
			newField(form.FieldEmail, "Email", "you@example.com", false, width),
			newField(form.FieldPassword, "Password", "at least 6 characters", true, width),
		),
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the login view.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetCtrlCPending sets the Ctrl+C confirmation state.
func (m *LoginModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Submitting reports whether a login request is in flight.
func (m LoginModel) Submitting() bool {
	return m.submitting
}

// Errors returns the current field messages.
func (m LoginModel) Errors() form.Errors {
	return m.fields.errors
}

// Fail re-enables the form and shows err beside the email field.
func (m *LoginModel) Fail(err error) {
	m.submitting = false
	m.fields.errors = form.Errors{form.FieldEmail: api.Message(err)}
}

// Update handles messages for the login view.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
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
			return m, navigate(route.Route{Name: route.Signup})
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fields.setWidth(msg.Width)
		return m, nil
	}

	return m, m.fields.update(msg)
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	in := form.Login{
		Email:    strings.TrimSpace(m.fields.value(form.FieldEmail)),
		Password: m.fields.value(form.FieldPassword),
	}
	m.fields.errors = in.Validate()
	if !m.fields.errors.OK() {
		return m, nil
	}
	m.submitting = true
	return m, emit(LoginSubmitMsg{Form: in})
}

// View renders the login view.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Log in"))
	b.WriteString("\n\n")
	b.WriteString(m.fields.view())

	if m.submitting {
		b.WriteString(tui.WarningStyle.Render("Logging in..."))
	} else {
		b.WriteString(tui.SelectedStyle.Render("[ Log in ]"))
	}
	b.WriteString("\n\n")

	b.WriteString(tui.DimStyle.Render("Enter: Submit    Tab: Next field    Ctrl+N: Sign up instead    Esc: Back"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(ctrlCHint(m.ctrlCPending)))

	return tui.BoxStyle.
		Width(boxWidth(m.width)).
		Render(b.String())
}
