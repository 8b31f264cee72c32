package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mithrel/docqa/internal/present"
	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/pkg/api"
)

const minPasswordLen = 6

func newSignupCmd() *cobra.Command {
	var req api.SignupRequest
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if passwordStdin {
				pw, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				req.Password = pw
			}
			if req.Username == "" || req.Email == "" || req.Password == "" {
				if !stdinIsTerminal(cmd) {
					return errors.New("--username, --email and --password-stdin are required when not interactive")
				}
				if err := signupForm(&req).Run(); err != nil {
					return err
				}
			}
			if err := validateSignup(req); err != nil {
				return err
			}
			tok, err := app.Client.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := app.SaveToken(tok.AccessToken); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are logged in.\n", tok.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "account username")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "display name (optional)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func signupForm(req *api.SignupRequest) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&req.Username).
				Validate(func(s string) error { return requireLen("username", s, 3) }),
			huh.NewInput().Title("Email").Value(&req.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a valid email")
					}
					return nil
				}),
			huh.NewInput().Title("Full name").Description("optional").Value(&req.FullName),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password).
				Validate(func(s string) error { return requireLen("password", s, minPasswordLen) }),
		),
	)
}

func validateSignup(req api.SignupRequest) error {
	return errors.Join(
		requireLen("username", req.Username, 3),
		requireLen("password", req.Password, minPasswordLen),
	)
}

func requireLen(field, s string, n int) error {
	if len([]rune(strings.TrimSpace(s))) < n {
		return fmt.Errorf("%s must be at least %d characters", field, n)
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	var username string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if username == "" {
				username = app.Cfg.GetString("auth.username")
			}
			var password string
			if passwordStdin {
				pw, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = pw
			}
			if username == "" || password == "" {
				if !stdinIsTerminal(cmd) {
					return errors.New("--username and --password-stdin are required when not interactive")
				}
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Username or email").Value(&username),
						huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
					),
				)
				if err := form.Run(); err != nil {
					return err
				}
			}
			tok, err := app.Client.Login(cmd.Context(), strings.TrimSpace(username), password)
			if err != nil {
				return err
			}
			if err := app.SaveToken(tok.AccessToken); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", tok.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username or email (defaults to auth.username)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp(cmd).ClearToken(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(cmd, outputMode, false)
			if err != nil {
				return err
			}
			u, err := app.Client.Me(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch mode {
			case present.ModeJSON, present.ModeNDJSON:
				return format.WriteJSON(w, u, false)
			default:
				_, _ = fmt.Fprintf(w, "%s <%s>\n", u.Username, u.Email)
				if u.FullName != "" {
					_, _ = fmt.Fprintf(w, "name: %s\n", u.FullName)
				}
				_, _ = fmt.Fprintf(w, "server: %s\n", app.Client.BaseURL())
				return nil
			}
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|json")
	return cmd
}

// readPassword takes the first line of r.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("empty password on stdin")
	}
	return pw, nil
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && isTerminal(f)
}
