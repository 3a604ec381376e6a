// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/route"
)

// ============================================================================
// Navigation Messages
// ============================================================================

// NavigateMsg asks the app to show a route. The guard runs before the
// route is mounted.
type NavigateMsg struct {
	To route.Route
}

// NotifyMsg asks the app to show a transient notification.
type NotifyMsg struct {
	Kind NoticeKind
	Text string
}

// ClearNoticeMsg expires the notification with ID.
type ClearNoticeMsg struct {
	ID int
}

// CtrlCResetMsg clears the pending Ctrl+C confirmation.
type CtrlCResetMsg struct{}

// GuardCheckMsg asks the app to re-run the route guard for the screen
// mounted under Gen.
type GuardCheckMsg struct {
	Gen uint64
}

// ============================================================================
// Auth Messages
// ============================================================================

// LoginResultMsg carries the outcome of a login request.
type LoginResultMsg struct {
	Gen    uint64
	Email  string
	Result api.AuthResult
	Err    error
}

// SignupResultMsg carries the outcome of a signup request.
type SignupResultMsg struct {
	Gen    uint64
	Email  string
	Result api.AuthResult
	Err    error
}

// ============================================================================
// Task Messages
// ============================================================================

// DashboardLoadedMsg carries the profile and task list fetched together.
// Err is set if either request failed.
type DashboardLoadedMsg struct {
	Gen   uint64
	User  api.User
	Tasks []api.Task
	Err   error
}

// TaskLoadedMsg carries a single task fetched for the edit screen.
type TaskLoadedMsg struct {
	Gen  uint64
	Task api.Task
	Err  error
}

// TaskCreatedMsg carries the outcome of a create request.
type TaskCreatedMsg struct {
	Gen  uint64
	Task api.Task
	Err  error
}

// TaskUpdatedMsg carries the outcome of an update request. ID is the task
// that was submitted, set even on failure.
type TaskUpdatedMsg struct {
	Gen  uint64
	ID   string
	Task api.Task
	Err  error
}

// TaskDeletedMsg carries the outcome of a delete request.
type TaskDeletedMsg struct {
	Gen   uint64
	ID    string
	Title string
	Err   error
}
