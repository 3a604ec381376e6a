package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/api"
	actlog "github.com/taskdeck/taskdeck/internal/log"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// Notification texts.
const (
	msgLoggedIn       = "Signed in. Redirecting to dashboard..."
	msgSignedUp       = "Account created. Redirecting to dashboard..."
	msgLoggedOut      = "Logged out"
	msgSessionExpired = "Session expired, please log in again"
	msgTaskCreated    = "Task added"
	msgTaskUpdated    = "Task updated"
	msgTaskDeleted    = "Task deleted"
)

// ============================================================================
// Auth
// ============================================================================

func (a *App) handleLogin(msg tui.LoginResultMsg) tea.Cmd {
	if msg.Err != nil {
		a.loginView.Fail(msg.Err)
		return a.notify(tui.NoticeError, api.Message(msg.Err))
	}
	return a.signIn(msg.Result.Token, msgLoggedIn, actlog.LogEvent{
		Event: actlog.EventLoggedIn,
		Email: msg.Email,
	})
}

func (a *App) handleSignup(msg tui.SignupResultMsg) tea.Cmd {
	if msg.Err != nil {
		a.signupView.Fail(msg.Err)
		return a.notify(tui.NoticeError, api.Message(msg.Err))
	}
	return a.signIn(msg.Result.Token, msgSignedUp, actlog.LogEvent{
		Event: actlog.EventSignedUp,
		Email: msg.Email,
	})
}

// signIn persists token and moves to the dashboard.
func (a *App) signIn(token, notice string, event actlog.LogEvent) tea.Cmd {
	if err := a.deps.Session.Set(token); err != nil {
		a.deps.Logger.Error("storing session failed", zap.Error(err))
		return a.notify(tui.NoticeError, "Could not save your session")
	}
	a.record(event)
	return tea.Batch(
		a.notify(tui.NoticeSuccess, notice),
		a.navigate(route.Route{Name: route.Dashboard}),
	)
}

// logout drops the session without telling the server.
func (a *App) logout() tea.Cmd {
	a.clearSession()
	a.record(actlog.LogEvent{Event: actlog.EventLoggedOut})
	return tea.Batch(
		a.notify(tui.NoticeInfo, msgLoggedOut),
		a.navigate(route.Route{Name: route.Login}),
	)
}

// revoke handles an authentication failure on any authenticated call:
// the session is cleared and the user lands on the login screen.
func (a *App) revoke(notice string, cause error) tea.Cmd {
	a.clearSession()
	a.record(actlog.LogEvent{Event: actlog.EventSessionRevoked, Reason: api.Message(cause)})
	a.deps.Logger.Warn("session revoked", zap.Error(cause))
	return tea.Batch(
		a.notify(tui.NoticeError, notice),
		a.navigate(route.Route{Name: route.Login}),
	)
}

func (a *App) clearSession() {
	a.model.User = nil
	if err := a.deps.Session.Clear(); err != nil {
		a.deps.Logger.Error("clearing session failed", zap.Error(err))
	}
}

// ============================================================================
// Tasks
// ============================================================================

// handleDashboard applies the initial load. Any failure is treated as an
// invalid session: the token is dropped and the user is sent to login.
func (a *App) handleDashboard(msg tui.DashboardLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		notice := msgSessionExpired
		if !api.IsUnauthorized(msg.Err) {
			notice = fmt.Sprintf("Could not load dashboard: %s", api.Message(msg.Err))
		}
		return a.revoke(notice, msg.Err)
	}

	user := msg.User
	a.model.User = &user
	a.dashboardView.Loaded(msg.User, msg.Tasks)
	return nil
}

func (a *App) handleTaskLoaded(msg tui.TaskLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		if api.IsUnauthorized(msg.Err) {
			return a.revoke(msgSessionExpired, msg.Err)
		}
		a.deps.Logger.Warn("loading task failed", zap.String("task", a.editTaskView.ID()), zap.Error(msg.Err))
		a.editTaskView.LoadFailed()
		return a.notify(tui.NoticeError, "Error loading task")
	}
	a.editTaskView.Loaded(msg.Task)
	return nil
}

func (a *App) handleTaskCreated(msg tui.TaskCreatedMsg) tea.Cmd {
	if msg.Err != nil {
		if api.IsUnauthorized(msg.Err) {
			return a.revoke(msgSessionExpired, msg.Err)
		}
		a.taskFormView.Fail(msg.Err)
		return a.notify(tui.NoticeError, api.Message(msg.Err))
	}
	a.record(actlog.LogEvent{Event: actlog.EventTaskCreated, TaskID: msg.Task.ID, Title: msg.Task.Title})
	return tea.Batch(
		a.notify(tui.NoticeSuccess, msgTaskCreated),
		a.navigate(route.Route{Name: route.Dashboard}),
	)
}

// handleTaskUpdated serves both the dashboard's inline editor and the
// edit screen; the route on screen tells them apart.
func (a *App) handleTaskUpdated(msg tui.TaskUpdatedMsg) tea.Cmd {
	if msg.Err != nil {
		if api.IsUnauthorized(msg.Err) {
			return a.revoke(msgSessionExpired, msg.Err)
		}
		if a.model.Route.Name == route.EditTask {
			a.editTaskView.Fail(msg.Err)
		} else {
			a.dashboardView.UpdateFailed()
		}
		return a.notify(tui.NoticeError, api.Message(msg.Err))
	}

	a.record(actlog.LogEvent{Event: actlog.EventTaskUpdated, TaskID: msg.Task.ID, Title: msg.Task.Title})
	if a.model.Route.Name == route.EditTask {
		return tea.Batch(
			a.notify(tui.NoticeSuccess, msgTaskUpdated),
			a.navigate(route.Route{Name: route.Dashboard}),
		)
	}
	if msg.Task.ID != msg.ID {
		a.deps.Logger.Warn("update reply carries a different task id",
			zap.String("task", msg.ID), zap.String("reply", msg.Task.ID))
	}
	if !a.dashboardView.Updated(msg.ID, msg.Task) {
		a.deps.Logger.Warn("updated task is no longer listed", zap.String("task", msg.ID))
	}
	return a.notify(tui.NoticeSuccess, msgTaskUpdated)
}

func (a *App) handleTaskDeleted(msg tui.TaskDeletedMsg) tea.Cmd {
	if msg.Err != nil {
		if api.IsUnauthorized(msg.Err) {
			return a.revoke(msgSessionExpired, msg.Err)
		}
		a.dashboardView.DeleteFailed(msg.ID)
		return a.notify(tui.NoticeError, "Delete failed: "+api.Message(msg.Err))
	}
	a.record(actlog.LogEvent{Event: actlog.EventTaskDeleted, TaskID: msg.ID, Title: msg.Title})
	a.dashboardView.Deleted(msg.ID)
	return a.notify(tui.NoticeSuccess, msgTaskDeleted)
}

// record appends event to the activity log. Failures are logged only.
func (a *App) record(event actlog.LogEvent) {
	if err := a.deps.Activity.Append(event); err != nil {
		a.deps.Logger.Warn("writing activity log failed", zap.String("event", event.Event), zap.Error(err))
	}
}

func typeName(msg tea.Msg) string {
	return fmt.Sprintf("%T", msg)
}
