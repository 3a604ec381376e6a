// history.go implements the "taskdeck history" command that prints the
// activity log.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	actlog "github.com/taskdeck/taskdeck/internal/log"
)

var limitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent account and task activity",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
		return runHistory(e, limitFlag)
	}),
}

func init() {
	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Show only the last N events (0 = all)")
}

func runHistory(e *env, limit int) error {
	events, err := e.activity.ReadAll()
	if err != nil {
		return fmt.Errorf("reading activity log: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(e.out, "No activity yet.")
		return nil
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	for _, ev := range events {
		fmt.Fprintf(e.out, "%s  %-16s  %s\n", ev.Time.Local().Format("2006-01-02 15:04:05"), ev.Event, describe(ev))
	}
	return nil
}

// describe renders the event-specific fields.
func describe(ev actlog.LogEvent) string {
	switch {
	case ev.Email != "":
		return ev.Email
	case ev.TaskID != "" && ev.Title != "":
		return fmt.Sprintf("%s %q", ev.TaskID, ev.Title)
	case ev.TaskID != "":
		return ev.TaskID
	case ev.Reason != "":
		return ev.Reason
	}
	return ""
}
