// tasks.go implements "taskdeck tasks" and its list, add, edit and rm
// subcommands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	actlog "github.com/taskdeck/taskdeck/internal/log"
)

var (
	titleFlag       string
	descriptionFlag string
	yesFlag         bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage your tasks",
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your tasks",
	Args:    cobra.NoArgs,
	RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
		return runTasksList(e)
	}),
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
		return runTasksAdd(e, args[0], descriptionFlag)
	}),
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task's title or description",
	Long: `Change a task. Only the fields given as flags are changed; the rest
keep their current values.`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
		var title, desc *string
		if cmd.Flags().Changed("title") {
			title = &titleFlag
		}
		if cmd.Flags().Changed("description") {
			desc = &descriptionFlag
		}
		return runTasksEdit(e, args[0], title, desc)
	}),
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Long:  `Delete a task. Asks for confirmation unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
		return runTasksRm(e, args[0], yesFlag)
	}),
}

func init() {
	tasksAddCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Task description")
	tasksEditCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "New title")
	tasksEditCmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "New description")
	tasksRmCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Delete without asking")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksEditCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}

// withEnv opens the command environment around fn.
func withEnv(fn func(e *env, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()
		return fn(e, cmd, args)
	}
}

func runTasksList(e *env) error {
	token, err := e.token()
	if err != nil {
		return err
	}
	tasks, err := e.client.ListTasks(token)
	if err := e.check("listing tasks", err); err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(e.out, "No tasks found. Create your first task with: taskdeck tasks add <title>")
		return nil
	}

	for _, t := range tasks {
		fmt.Fprintf(e.out, "  %-26s  %-32s  %s\n", t.ID, t.Title, formatCreated(t))
		if t.Description != "" {
			fmt.Fprintf(e.out, "  %-26s  %s\n", "", t.Description)
		}
	}
	fmt.Fprintf(e.out, "\n%d task(s)\n", len(tasks))
	return nil
}

func runTasksAdd(e *env, title, description string) error {
	token, err := e.token()
	if err != nil {
		return err
	}

	in := form.Task{Title: title, Description: description}.Normalize()
	if err := in.Validate().Err(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	task, err := e.client.CreateTask(token, api.TaskInput{Title: in.Title, Description: in.Description})
	if err := e.check("creating task", err); err != nil {
		return err
	}
	e.record(actlog.LogEvent{Event: actlog.EventTaskCreated, TaskID: task.ID, Title: task.Title})

	fmt.Fprintf(e.out, "Created %s: %s\n", task.ID, task.Title)
	return nil
}

// runTasksEdit applies the non-nil fields on top of the task's current
// values.
func runTasksEdit(e *env, id string, title, description *string) error {
	if title == nil && description == nil {
		return fmt.Errorf("nothing to change; pass --title and/or --description")
	}
	token, err := e.token()
	if err != nil {
		return err
	}

	current, err := e.client.GetTask(token, id)
	if err := e.check("loading task", err); err != nil {
		return err
	}

	in := form.Task{Title: current.Title, Description: current.Description}
	if title != nil {
		in.Title = *title
	}
	if description != nil {
		in.Description = *description
	}
	in = in.Normalize()
	if err := in.Validate().Err(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	task, err := e.client.UpdateTask(token, id, api.TaskInput{Title: in.Title, Description: in.Description})
	if err := e.check("updating task", err); err != nil {
		return err
	}
	e.record(actlog.LogEvent{Event: actlog.EventTaskUpdated, TaskID: task.ID, Title: task.Title})

	fmt.Fprintf(e.out, "Updated %s: %s\n", task.ID, task.Title)
	return nil
}

func runTasksRm(e *env, id string, yes bool) error {
	token, err := e.token()
	if err != nil {
		return err
	}

	if !yes {
		ok, err := e.confirm(fmt.Sprintf("Delete task %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(e.out, "Aborted.")
			return nil
		}
	}

	if err := e.check("deleting task", e.client.DeleteTask(token, id)); err != nil {
		return err
	}
	e.record(actlog.LogEvent{Event: actlog.EventTaskDeleted, TaskID: id})

	fmt.Fprintf(e.out, "Deleted %s\n", id)
	return nil
}

func formatCreated(t api.Task) string {
	if t.CreatedAt.IsZero() {
		return ""
	}
	return t.CreatedAt.Local().Format("Jan 02, 2006 15:04")
}
