package commands

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/tui"
)

// ClearNoticeCmd expires notice id after d. A zero d keeps the notice
// until the next one replaces it.
func ClearNoticeCmd(d time.Duration, id int) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tui.ClearNoticeMsg{ID: id}
	})
}

// GuardCheckCmd schedules a route guard re-check for mount gen after d.
// A non-positive d disables the check.
func GuardCheckCmd(d time.Duration, gen uint64) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tui.GuardCheckMsg{Gen: gen}
	})
}

// CtrlCResetCmd clears the pending Ctrl+C confirmation after d.
func CtrlCResetCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tui.CtrlCResetMsg{}
	})
}
