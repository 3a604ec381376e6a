// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/route"
)

// NoticeKind selects how a notification is rendered.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a transient message shown in the status bar.
type Notice struct {
	ID   int
	Kind NoticeKind
	Text string
}

// View renders the notice with the style for its kind.
func (n Notice) View() string {
	switch n.Kind {
	case NoticeSuccess:
		return SuccessStyle.Render("✓ " + n.Text)
	case NoticeError:
		return ErrorStyle.Render("✗ " + n.Text)
	default:
		return WarningStyle.Render(n.Text)
	}
}

// Model holds the application state shared across screens.
type Model struct {
	// Route is the screen currently rendered, after the guard ran.
	Route route.Route

	// Gen identifies the current screen mount. Async results issued under
	// an older generation are discarded.
	Gen uint64

	// User is the profile fetched by the last dashboard load.
	User *api.User

	// Notice is the current notification, nil when none is shown.
	Notice   *Notice
	noticeID int

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool
}

// NewModel creates a Model positioned at start.
func NewModel(start route.Route) *Model {
	return &Model{
		Route: start,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

// Mount advances the generation for a new screen mount and returns it.
func (m *Model) Mount(r route.Route) uint64 {
	m.Route = r
	m.Gen++
	return m.Gen
}

// Notify replaces the current notice and returns its id.
func (m *Model) Notify(kind NoticeKind, text string) int {
	m.noticeID++
	m.Notice = &Notice{ID: m.noticeID, Kind: kind, Text: text}
	return m.noticeID
}

// ClearNotice removes the notice if it is still the one with id.
func (m *Model) ClearNotice(id int) {
	if m.Notice != nil && m.Notice.ID == id {
		m.Notice = nil
	}
}
