// Package app provides the main TUI application that wires all views together.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/api"
	actlog "github.com/taskdeck/taskdeck/internal/log"
	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/tui"
	"github.com/taskdeck/taskdeck/internal/tui/commands"
	"github.com/taskdeck/taskdeck/internal/tui/views"
)

// DefaultNoticeTTL is how long a notification stays on screen.
const DefaultNoticeTTL = 4 * time.Second

// DefaultGuardInterval is how often a protected screen re-reads the
// session, so a logout from another process is noticed without input.
const DefaultGuardInterval = 2 * time.Second

// ctrlCWindow is how long the first Ctrl+C waits for the second.
const ctrlCWindow = time.Second

// Deps are the collaborators the App needs. Session and Client are
// required; the rest may be nil.
type Deps struct {
	Client   *api.Client
	Session  *session.Session
	Activity *actlog.Logger
	Logger   *zap.Logger

	// NoticeTTL overrides DefaultNoticeTTL. Negative keeps notices until
	// they are replaced.
	NoticeTTL time.Duration

	// GuardInterval overrides DefaultGuardInterval. Negative disables the
	// periodic check; keypresses still re-run the guard.
	GuardInterval time.Duration
}

// App is the main TUI application that wires all views together.
type App struct {
	model *tui.Model
	deps  Deps
	guard route.Guard

	// View models
	homeView      views.HomeModel
	loginView     views.LoginModel
	signupView    views.SignupModel
	dashboardView views.DashboardModel
	taskFormView  views.TaskFormModel
	editTaskView  views.EditTaskModel
}

// New creates an App that starts at start once Init runs.
func New(deps Deps, start route.Route) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NoticeTTL == 0 {
		deps.NoticeTTL = DefaultNoticeTTL
	}
	if deps.GuardInterval == 0 {
		deps.GuardInterval = DefaultGuardInterval
	}

	return &App{
		model: tui.NewModel(start),
		deps:  deps,
		guard: route.NewGuard(deps.Session),
	}
}

// Route returns the route currently on screen.
func (a *App) Route() route.Route {
	return a.model.Route
}

// Notice returns the notification currently shown, if any.
func (a *App) Notice() (tui.Notice, bool) {
	if a.model.Notice == nil {
		return tui.Notice{}, false
	}
	return *a.model.Notice, true
}

// Init mounts the start route.
func (a *App) Init() tea.Cmd {
	return a.navigate(a.model.Route)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		return a, a.updateView(msg)

	case tea.KeyMsg:
		if msg.String() == tui.KeyCtrlC {
			if a.model.CtrlCPending {
				return a, tea.Quit
			}
			a.model.CtrlCPending = true
			return a, commands.CtrlCResetCmd(ctrlCWindow)
		}
		if cmd, left := a.recheck(); left {
			return a, cmd
		}

	case tui.GuardCheckMsg:
		if msg.Gen != a.model.Gen {
			return a, nil
		}
		if cmd, left := a.recheck(); left {
			return a, cmd
		}
		return a, commands.GuardCheckCmd(a.deps.GuardInterval, msg.Gen)

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.NavigateMsg:
		return a, a.navigate(msg.To)

	case tui.NotifyMsg:
		return a, a.notify(msg.Kind, msg.Text)

	case tui.ClearNoticeMsg:
		a.model.ClearNotice(msg.ID)
		return a, nil

	// Intents raised by the views.
	case views.LoginSubmitMsg:
		return a, commands.LoginCmd(a.deps.Client, a.model.Gen, msg.Form)
	case views.SignupSubmitMsg:
		return a, commands.SignupCmd(a.deps.Client, a.model.Gen, msg.Form)
	case views.SaveTaskMsg:
		return a, a.authed(func(token string) tea.Cmd {
			return commands.UpdateTaskCmd(a.deps.Client, a.model.Gen, token, msg.ID, msg.Input)
		})
	case views.UpdateTaskSubmitMsg:
		return a, a.authed(func(token string) tea.Cmd {
			return commands.UpdateTaskCmd(a.deps.Client, a.model.Gen, token, msg.ID, msg.Input)
		})
	case views.DeleteTaskMsg:
		return a, a.authed(func(token string) tea.Cmd {
			return commands.DeleteTaskCmd(a.deps.Client, a.model.Gen, token, msg.ID, msg.Title)
		})
	case views.CreateTaskSubmitMsg:
		return a, a.authed(func(token string) tea.Cmd {
			return commands.CreateTaskCmd(a.deps.Client, a.model.Gen, token, msg.Input)
		})
	case views.RefreshMsg:
		return a, a.authed(func(token string) tea.Cmd {
			return tea.Batch(
				a.dashboardView.Reloading(),
				commands.LoadDashboardCmd(a.deps.Client, a.model.Gen, token),
			)
		})
	case views.LogoutMsg:
		return a, a.logout()

	// Results of network commands.
	case tui.LoginResultMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleLogin(msg)
	case tui.SignupResultMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleSignup(msg)
	case tui.DashboardLoadedMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleDashboard(msg)
	case tui.TaskLoadedMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleTaskLoaded(msg)
	case tui.TaskCreatedMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleTaskCreated(msg)
	case tui.TaskUpdatedMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleTaskUpdated(msg)
	case tui.TaskDeletedMsg:
		if a.stale(msg.Gen, msg) {
			return a, nil
		}
		return a, a.handleTaskDeleted(msg)
	}

	return a, a.updateView(msg)
}

// updateView forwards msg to the view on screen.
func (a *App) updateView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.model.Route.Name {
	case route.Home:
		a.homeView, cmd = a.homeView.Update(msg)
	case route.Login:
		a.loginView, cmd = a.loginView.Update(msg)
	case route.Signup:
		a.signupView, cmd = a.signupView.Update(msg)
	case route.Dashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case route.CreateTask:
		a.taskFormView, cmd = a.taskFormView.Update(msg)
	case route.EditTask:
		a.editTaskView, cmd = a.editTaskView.Update(msg)
	}
	return cmd
}

// stale reports whether a result was issued under an earlier mount.
func (a *App) stale(gen uint64, msg tea.Msg) bool {
	if gen == a.model.Gen {
		return false
	}
	a.deps.Logger.Debug("dropping result for unmounted screen",
		zap.Uint64("gen", gen),
		zap.Uint64("current", a.model.Gen),
		zap.String("msg", typeName(msg)),
	)
	return true
}

// ============================================================================
// Navigation
// ============================================================================

// navigate runs the guard for to and mounts whatever it allows. Every
// mount gets a fresh generation, so results still in flight for the
// previous screen are dropped when they arrive.
func (a *App) navigate(to route.Route) tea.Cmd {
	decision, target := a.guard.Check(to)
	if decision == route.Redirecting {
		a.deps.Logger.Info("redirecting to login", zap.String("requested", to.Path()))
	}

	gen := a.model.Mount(target)
	w, h := a.model.Width, a.model.Height
	a.deps.Logger.Debug("mount", zap.String("route", target.Path()), zap.Uint64("gen", gen))

	var watch tea.Cmd
	if target.Protected() {
		watch = commands.GuardCheckCmd(a.deps.GuardInterval, gen)
	}
	return tea.Batch(watch, a.mount(target, gen, w, h))
}

// mount builds a fresh view for target and returns its start commands.
func (a *App) mount(target route.Route, gen uint64, w, h int) tea.Cmd {
	switch target.Name {
	case route.Login:
		a.loginView = views.NewLoginModel(w, h)
		return a.loginView.Init()

	case route.Signup:
		a.signupView = views.NewSignupModel(w, h)
		return a.signupView.Init()

	case route.Dashboard:
		token, _ := a.deps.Session.Get()
		a.dashboardView = views.NewDashboardModel(w, h)
		return tea.Batch(
			a.dashboardView.Init(),
			commands.LoadDashboardCmd(a.deps.Client, gen, token),
		)

	case route.CreateTask:
		a.taskFormView = views.NewTaskFormModel(w, h)
		return a.taskFormView.Init()

	case route.EditTask:
		token, _ := a.deps.Session.Get()
		a.editTaskView = views.NewEditTaskModel(target.TaskID, w, h)
		return tea.Batch(
			a.editTaskView.Init(),
			commands.LoadTaskCmd(a.deps.Client, gen, token, target.TaskID),
		)

	default:
		a.homeView = views.NewHomeModel(a.deps.Session.Authenticated(), w, h)
		return a.homeView.Init()
	}
}

// recheck re-runs the guard for the protected screen on display. When the
// session has gone, the user is sent to login and left is true.
func (a *App) recheck() (tea.Cmd, bool) {
	current := a.model.Route
	if !current.Protected() {
		return nil, false
	}
	if decision, _ := a.guard.Check(current); decision == route.Allowed {
		return nil, false
	}
	a.deps.Logger.Info("session gone while on a protected screen", zap.String("route", current.Path()))
	a.model.User = nil
	return tea.Batch(
		a.notify(tui.NoticeError, msgSessionExpired),
		a.navigate(route.Route{Name: route.Login}),
	), true
}

// authed runs issue with the stored token. If the token disappeared the
// guard sends the user to login instead and nothing is sent.
func (a *App) authed(issue func(token string) tea.Cmd) tea.Cmd {
	token, ok := a.deps.Session.Get()
	if !ok {
		return a.navigate(route.Route{Name: route.Login})
	}
	return issue(token)
}

func (a *App) notify(kind tui.NoticeKind, text string) tea.Cmd {
	id := a.model.Notify(kind, text)
	return commands.ClearNoticeCmd(a.deps.NoticeTTL, id)
}

// ============================================================================
// Rendering
// ============================================================================

// View renders the current application state.
func (a *App) View() string {
	var content string

	// Sync Ctrl+C pending state to views
	a.homeView.SetCtrlCPending(a.model.CtrlCPending)
	a.loginView.SetCtrlCPending(a.model.CtrlCPending)
	a.signupView.SetCtrlCPending(a.model.CtrlCPending)
	a.dashboardView.SetCtrlCPending(a.model.CtrlCPending)
	a.taskFormView.SetCtrlCPending(a.model.CtrlCPending)
	a.editTaskView.SetCtrlCPending(a.model.CtrlCPending)

	switch a.model.Route.Name {
	case route.Login:
		content = a.loginView.View()
	case route.Signup:
		content = a.signupView.View()
	case route.Dashboard:
		content = a.dashboardView.View()
	case route.CreateTask:
		content = a.taskFormView.View()
	case route.EditTask:
		content = a.editTaskView.View()
	default:
		content = a.homeView.View()
	}

	if n := a.model.Notice; n != nil {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", n.View())
	}

	return a.centerContent(content)
}

// centerContent centers the given content both horizontally and vertically.
func (a *App) centerContent(content string) string {
	return lipgloss.Place(
		a.model.Width,
		a.model.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
