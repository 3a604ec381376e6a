// Package route defines the client's screens as paths and the guard that
// keeps protected screens behind a stored session.
package route

import (
	"strings"
)

// Name identifies a screen.
type Name int

const (
	Home Name = iota
	Login
	Signup
	Dashboard
	CreateTask
	EditTask
)

// Paths of the fixed routes.
const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathSignup     = "/signup"
	PathDashboard  = "/dashboard"
	PathCreateTask = "/create-task"
	taskPrefix     = "/task/"
)

// Route is a resolved navigation target.
type Route struct {
	Name   Name
	TaskID string // set for EditTask only
}

// Protected reports whether the route requires a session.
func (r Route) Protected() bool {
	switch r.Name {
	case Dashboard, CreateTask, EditTask:
		return true
	default:
		return false
	}
}

// Path renders the route back to its path.
func (r Route) Path() string {
	switch r.Name {
	case Login:
		return PathLogin
	case Signup:
		return PathSignup
	case Dashboard:
		return PathDashboard
	case CreateTask:
		return PathCreateTask
	case EditTask:
		return taskPrefix + r.TaskID
	default:
		return PathHome
	}
}

func (r Route) String() string {
	return r.Path()
}

// Task returns the edit route for a task id.
func Task(id string) Route {
	return Route{Name: EditTask, TaskID: id}
}

// Resolve maps a path to its route. Unknown paths, including /task/ with
// no id, resolve to Home.
func Resolve(path string) Route {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	switch path {
	case PathHome, "":
		return Route{Name: Home}
	case PathLogin:
		return Route{Name: Login}
	case PathSignup:
		return Route{Name: Signup}
	case PathDashboard:
		return Route{Name: Dashboard}
	case PathCreateTask:
		return Route{Name: CreateTask}
	}
	if id := strings.TrimPrefix(path, taskPrefix); id != path && id != "" && !strings.Contains(id, "/") {
		return Task(id)
	}
	return Route{Name: Home}
}
