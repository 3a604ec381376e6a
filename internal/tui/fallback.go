package tui

import (
	"fmt"
	"io"
)

// FallbackRunner handles non-TTY execution by pointing users at the
// equivalent CLI commands.
type FallbackRunner struct {
	out      io.Writer
	signedIn bool
}

// NewFallbackRunner creates a FallbackRunner writing to out.
func NewFallbackRunner(out io.Writer, signedIn bool) *FallbackRunner {
	return &FallbackRunner{out: out, signedIn: signedIn}
}

// Run prints the guidance for the current session state.
func (f *FallbackRunner) Run() error {
	fmt.Fprintln(f.out, "Non-TTY environment detected.")
	if !f.signedIn {
		fmt.Fprintln(f.out, "Sign in with 'taskdeck login --email <email>' or create an account with 'taskdeck signup'.")
		return nil
	}
	fmt.Fprintln(f.out, "Use 'taskdeck tasks list' to see your tasks, 'taskdeck tasks add <title>' to create one.")
	return nil
}
