// Package commands provides Bubble Tea commands for TUI operations.
// Every command performs one network exchange off the update loop and
// reports back with a message stamped with the generation it was issued
// under.
package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// LoginCmd exchanges credentials for a token.
func LoginCmd(client *api.Client, gen uint64, in form.Login) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Login(in.Email, in.Password)
		return tui.LoginResultMsg{Gen: gen, Email: in.Email, Result: res, Err: err}
	}
}

// SignupCmd creates an account and returns its token.
func SignupCmd(client *api.Client, gen uint64, in form.Signup) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Signup(in.Name, in.Email, in.Password)
		return tui.SignupResultMsg{Gen: gen, Email: in.Email, Result: res, Err: err}
	}
}
