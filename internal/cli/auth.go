// auth.go implements the "taskdeck login", "signup", "logout" and "whoami"
// commands.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/form"
	actlog "github.com/taskdeck/taskdeck/internal/log"
)

var (
	emailFlag    string
	passwordFlag string
	nameFlag     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Log in with your email and password. The password is prompted for
when --password is not given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()
		return runLogin(e, emailFlag, passwordFlag)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()
		return runSignup(e, nameFlag, emailFlag, passwordFlag)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Long:  `Remove the stored token. The server is not contacted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()
		return runLogout(e)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()
		return runWhoami(e)
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&emailFlag, "email", "", "Account email")
		c.Flags().StringVar(&passwordFlag, "password", "", "Account password (prompted when omitted)")
	}
	signupCmd.Flags().StringVar(&nameFlag, "name", "", "Display name")
}

func runLogin(e *env, email, password string) error {
	var err error
	if email == "" {
		if email, err = e.readLine("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = e.readSecret("Password: "); err != nil {
			return err
		}
	}

	in := form.Login{Email: strings.TrimSpace(email), Password: password}
	if err := in.Validate().Err(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	res, err := e.client.Login(in.Email, in.Password)
	if err != nil {
		return errors.New(api.Message(err))
	}
	if err := e.session.Set(res.Token); err != nil {
		return err
	}
	e.record(actlog.LogEvent{Event: actlog.EventLoggedIn, Email: in.Email})

	fmt.Fprintf(e.out, "Logged in as %s\n", in.Email)
	return nil
}

func runSignup(e *env, name, email, password string) error {
	var err error
	if name == "" {
		if name, err = e.readLine("Name: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = e.readLine("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = e.readSecret("Password: "); err != nil {
			return err
		}
	}

	in := form.Signup{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	if err := in.Validate().Err(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	res, err := e.client.Signup(in.Name, in.Email, in.Password)
	if err != nil {
		return errors.New(api.Message(err))
	}
	if err := e.session.Set(res.Token); err != nil {
		return err
	}
	e.record(actlog.LogEvent{Event: actlog.EventSignedUp, Email: in.Email})

	fmt.Fprintf(e.out, "Account created for %s\n", in.Email)
	return nil
}

func runLogout(e *env) error {
	if !e.session.Authenticated() {
		fmt.Fprintln(e.out, "Not logged in.")
		return nil
	}
	if err := e.session.Clear(); err != nil {
		return err
	}
	e.record(actlog.LogEvent{Event: actlog.EventLoggedOut})
	fmt.Fprintln(e.out, "Logged out.")
	return nil
}

func runWhoami(e *env) error {
	token, err := e.token()
	if err != nil {
		return err
	}
	user, err := e.client.GetProfile(token)
	if err := e.check("fetching profile", err); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s <%s>\n", user.Name, user.Email)
	return nil
}
