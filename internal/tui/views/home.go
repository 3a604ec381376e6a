// Package views provides the screens of the taskdeck TUI.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// HomeModel is the landing screen. It only offers navigation.
type HomeModel struct {
	signedIn     bool
	width        int
	height       int
	ctrlCPending bool
}

// NewHomeModel creates a HomeModel. signedIn adds the dashboard shortcut.
func NewHomeModel(signedIn bool, width, height int) HomeModel {
	return HomeModel{signedIn: signedIn, width: width, height: height}
}

// Init returns the initial command for the home view.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// SetCtrlCPending sets the Ctrl+C confirmation state.
func (m *HomeModel) SetCtrlCPending(pending bool) {
	m.ctrlCPending = pending
}

// Update handles messages for the home view.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.ToLogin):
			return m, navigate(route.Route{Name: route.Login})
		case key.Matches(msg, tui.DefaultKeyMap.ToSignup):
			return m, navigate(route.Route{Name: route.Signup})
		case msg.String() == tui.KeyEnter && m.signedIn:
			return m, navigate(route.Route{Name: route.Dashboard})
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the home view.
func (m HomeModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("taskdeck"))
	b.WriteString("\n\n")
	b.WriteString("Keep track of your tasks from the terminal.")
	b.WriteString("\n\n")

	if m.signedIn {
		b.WriteString(tui.SuccessStyle.Render("You are signed in."))
		b.WriteString(tui.DimStyle.Render(" (press enter for your dashboard)"))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render("l: Log in    s: Sign up    " + ctrlCHint(m.ctrlCPending)))

	return tui.BoxStyle.
		Width(boxWidth(m.width)).
		Render(b.String())
}

// ============================================================================
// Shared helpers
// ============================================================================

// navigate returns a command that asks the app to show r.
func navigate(r route.Route) tea.Cmd {
	return func() tea.Msg {
		return tui.NavigateMsg{To: r}
	}
}

// emit wraps msg in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// maxBoxWidth is the widest a screen box is drawn.
const maxBoxWidth = 76

func boxWidth(width int) int {
	if width-4 < maxBoxWidth {
		return width - 4
	}
	return maxBoxWidth
}

func ctrlCHint(pending bool) string {
	if pending {
		return "Press Ctrl+C again to exit"
	}
	return "Ctrl+C: Exit"
}
