// env.go wires configuration, logging, the session store and the API
// client for a single command invocation.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	actlog "github.com/taskdeck/taskdeck/internal/log"
	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/session"
)

// errNotLoggedIn is returned by commands that need a stored token.
var errNotLoggedIn = errors.New("not logged in; run 'taskdeck login' first")

// errSessionExpired is returned after the server rejected the stored token.
var errSessionExpired = errors.New("session expired; run 'taskdeck login' again")

// env holds everything a command needs.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *session.Session
	client   *api.Client
	activity *actlog.Logger
	out      io.Writer
	in       io.Reader
	lines    *bufio.Reader
	closers  []func() error
}

// openEnv resolves the effective configuration and opens the session
// store. interactive is set for the TUI, which owns the terminal, so the
// diagnostic log never goes to stderr there.
func openEnv(cmd *cobra.Command, interactive bool) (*env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	cfg, err := config.Load(home, configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
	}

	e := &env{
		cfg: cfg,
		out: cmd.OutOrStdout(),
		in:  cmd.InOrStdin(),
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding, Path: cfg.Log.Path}
	if verbose {
		logCfg.Level = "debug"
		if !interactive {
			logCfg.Encoding = "console"
			logCfg.Path = ""
		}
	}
	log, closeLog, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}
	e.logger = log
	e.closers = append(e.closers, closeLog)

	backend, err := session.Open(cfg.Store.Driver, cfg.StorePath(home))
	if err != nil {
		e.close()
		return nil, fmt.Errorf("opening %s session store: %w", cfg.Store.Driver, err)
	}
	e.closers = append(e.closers, backend.Close)
	e.session = session.New(backend, log.Named("session"))

	activity, err := actlog.NewLogger(cfg.Log.ActivityPath)
	if err != nil {
		e.close()
		return nil, err
	}
	e.activity = activity

	e.client = api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log.Named("api")),
	)

	log.Debug("environment ready",
		zap.String("api", cfg.API.BaseURL),
		zap.String("store", cfg.Store.Driver),
	)
	return e, nil
}

// close releases resources in reverse order of acquisition.
func (e *env) close() {
	_ = e.logger.Sync()
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

// token returns the stored token or errNotLoggedIn.
func (e *env) token() (string, error) {
	token, ok := e.session.Get()
	if !ok {
		return "", errNotLoggedIn
	}
	return token, nil
}

// check converts an authentication failure into a cleared session and
// errSessionExpired. Other errors are wrapped with action.
func (e *env) check(action string, err error) error {
	if err == nil {
		return nil
	}
	if api.IsUnauthorized(err) {
		if clearErr := e.session.Clear(); clearErr != nil {
			e.logger.Error("clearing session failed", zap.Error(clearErr))
		}
		e.record(actlog.LogEvent{Event: actlog.EventSessionRevoked, Reason: api.Message(err)})
		return errSessionExpired
	}
	return fmt.Errorf("%s: %s", action, api.Message(err))
}

// record appends to the activity log. Failures are logged only.
func (e *env) record(event actlog.LogEvent) {
	if err := e.activity.Append(event); err != nil {
		e.logger.Warn("writing activity log failed", zap.Error(err))
	}
}

// readSecret reads a line without echo when input is a terminal.
func (e *env) readSecret(prompt string) (string, error) {
	if f, ok := e.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(e.out, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(e.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	return e.readLine("")
}

// readLine prints prompt and reads one line from input.
func (e *env) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(e.out, prompt)
	}
	if e.lines == nil {
		e.lines = bufio.NewReader(e.in)
	}
	line, err := e.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a y/N question. Anything but y or yes is a no.
func (e *env) confirm(question string) (bool, error) {
	answer, err := e.readLine(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
