package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// LoadDashboardCmd fetches the profile and the task list concurrently.
// The result fails if either request fails; an authentication failure
// takes precedence over any other error so the caller can tell an
// expired session apart from an outage.
func LoadDashboardCmd(client *api.Client, gen uint64, token string) tea.Cmd {
	return func() tea.Msg {
		var (
			user                api.User
			tasks               []api.Task
			profileErr, listErr error
		)

		var g errgroup.Group
		g.Go(func() error {
			user, profileErr = client.GetProfile(token)
			return profileErr
		})
		g.Go(func() error {
			tasks, listErr = client.ListTasks(token)
			return listErr
		})

		if err := g.Wait(); err != nil {
			switch {
			case api.IsUnauthorized(profileErr):
				err = profileErr
			case api.IsUnauthorized(listErr):
				err = listErr
			}
			return tui.DashboardLoadedMsg{Gen: gen, Err: err}
		}
		return tui.DashboardLoadedMsg{Gen: gen, User: user, Tasks: tasks}
	}
}

// LoadTaskCmd fetches one task for the edit screen.
func LoadTaskCmd(client *api.Client, gen uint64, token, id string) tea.Cmd {
	return func() tea.Msg {
		task, err := client.GetTask(token, id)
		return tui.TaskLoadedMsg{Gen: gen, Task: task, Err: err}
	}
}

// CreateTaskCmd submits a new task.
func CreateTaskCmd(client *api.Client, gen uint64, token string, in api.TaskInput) tea.Cmd {
	return func() tea.Msg {
		task, err := client.CreateTask(token, in)
		return tui.TaskCreatedMsg{Gen: gen, Task: task, Err: err}
	}
}

// UpdateTaskCmd submits new field values for task id.
func UpdateTaskCmd(client *api.Client, gen uint64, token, id string, in api.TaskInput) tea.Cmd {
	return func() tea.Msg {
		task, err := client.UpdateTask(token, id, in)
		return tui.TaskUpdatedMsg{Gen: gen, ID: id, Task: task, Err: err}
	}
}

// DeleteTaskCmd deletes task id. Title is carried through for the
// notification and the activity log.
func DeleteTaskCmd(client *api.Client, gen uint64, token, id, title string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteTask(token, id)
		return tui.TaskDeletedMsg{Gen: gen, ID: id, Title: title, Err: err}
	}
}
