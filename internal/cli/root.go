// Package cli defines Cobra command definitions for the taskdeck CLI.
// This file contains the root command, global flags and TUI launch.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/route"
	"github.com/taskdeck/taskdeck/internal/tui"
	"github.com/taskdeck/taskdeck/internal/tui/app"
)

var (
	configPath  string
	apiURL      string
	storeDriver string
	verbose     bool
	startRoute  string
	version     = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal client for the task manager API",
	Long: `taskdeck signs you in to a task manager server and lets you list,
create, edit and delete your tasks, either in a full-screen terminal UI
or with one-shot commands.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	tuiApp := app.New(app.Deps{
		Client:   e.client,
		Session:  e.session,
		Activity: e.activity,
		Logger:   e.logger.Named("tui"),
	}, route.Resolve(startRoute))

	return tui.Run(tuiApp, tui.NewFallbackRunner(e.out, e.session.Authenticated()))
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.taskdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Task API base URL")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Session store driver: sqlite, bolt or memory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging (to stderr outside the TUI)")
	rootCmd.Flags().StringVar(&startRoute, "route", route.PathHome, "Screen to open, e.g. /dashboard or /task/<id>")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
