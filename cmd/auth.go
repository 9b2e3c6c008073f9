package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/gistvault/internal/gate"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the local credential gate",
	Long: `Commands for the local username and password that unlock gistvault.

The credential lives only on this machine. It is unrelated to your GitHub
account; the GitHub token is configured separately.

Available Commands:
  setup     Create the local credential
  login     Start a session
  logout    End the session
  status    Show gate state
  reset     Delete the credential and session`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var authSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the local credential",
	Long: `Create the local username and password.

The password is hashed before it is stored. Running setup again replaces the
existing credential and ends any session, so it asks for confirmation unless
--force is given.

Examples:
  gistvault auth setup
  gistvault auth setup --username alice
  printf 'secret\n' | gistvault auth setup --username alice --password-stdin`,
	RunE: runAuthSetup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start a session",
	Long: `Check the username and password against the local credential and start a
session. Sessions end on logout, on reboot, or when they expire.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gate state",
	RunE:  runAuthStatus,
}

var authResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the credential and session",
	Long: `Delete the local credential and end the session. This cannot be undone.

Remote gists and local gist pointers are not touched.`,
	RunE: runAuthReset,
}

var (
	authUsername      string
	authPasswordStdin bool
	authForce         bool
)

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.AddCommand(authSetupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authResetCmd)

	for _, c := range []*cobra.Command{authSetupCmd, authLoginCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "Username (prompted if omitted)")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin without prompting")
	}

	authSetupCmd.Flags().BoolVarP(&authForce, "force", "f", false, "Replace an existing credential without asking")
	authResetCmd.Flags().BoolVarP(&authForce, "force", "f", false, "Skip confirmation prompt")
}

func readCredentials(confirm bool) (string, string, error) {
	username := authUsername
	if username == "" {
		var err error
		if username, err = promptLine("Username: "); err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
	}

	if authPasswordStdin {
		password, err := readLine()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}

		return username, password, nil
	}

	if confirm {
		password, err := readNewPassword("Password: ")
		return username, password, err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	return username, password, nil
}

func runAuthSetup(_ *cobra.Command, _ []string) error {
	g, err := openGate()
	if err != nil {
		return err
	}

	if g.IsSetup() && !authForce {
		if !promptConfirm("A credential already exists. Replace it? [y/N]: ") {
			_, _ = fmt.Fprintln(os.Stdout, "Setup cancelled.")
			return nil
		}
	}

	username, password, err := readCredentials(true)
	if err != nil {
		return err
	}

	if err := g.Setup(username, password); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Credential created for %s\n", okStyle.Render("✓"), username)
	_, _ = fmt.Fprintln(os.Stdout, "Log in with: gistvault auth login")

	return nil
}

func runAuthLogin(_ *cobra.Command, _ []string) error {
	g, err := openGate()
	if err != nil {
		return err
	}

	if !g.IsSetup() {
		return &gate.StateError{Want: gate.NeedsLogin, Got: gate.NeedsSetup}
	}

	username, password, err := readCredentials(false)
	if err != nil {
		return err
	}

	if err := g.Authenticate(username, password); err != nil {
		return err
	}

	info, err := g.Info()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Logged in as %s (session expires %s)\n",
		okStyle.Render("✓"), username, formatTime(info.SessionExpires))

	return nil
}

func runAuthLogout(_ *cobra.Command, _ []string) error {
	g, err := openGate()
	if err != nil {
		return err
	}

	if err := g.Logout(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Logged out.")

	return nil
}

func runAuthStatus(_ *cobra.Command, _ []string) error {
	g, err := openGate()
	if err != nil {
		return err
	}

	info, err := g.Info()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, headerStyle.Render("Credential gate"))
	printField("State", stateLabel(info.State))

	if info.State == gate.NeedsSetup {
		_, _ = fmt.Fprintln(os.Stdout, "\nCreate a credential with: gistvault auth setup")
		return nil
	}

	printField("Username", info.Username)
	printField("Set up", formatTime(info.SetupTime))
	printField("Hash", info.Hasher)

	if info.State == gate.Authenticated {
		printField("Session expires", formatTime(info.SessionExpires))
	}

	return nil
}

func runAuthReset(_ *cobra.Command, _ []string) error {
	g, err := openGate()
	if err != nil {
		return err
	}

	if !g.IsSetup() {
		_, _ = fmt.Fprintln(os.Stdout, "No credential to reset.")
		return nil
	}

	if !authForce {
		_, _ = fmt.Fprintln(os.Stdout, warnStyle.Render("This deletes the local credential and cannot be undone."))

		if !promptConfirm("Reset credentials? [y/N]: ") {
			_, _ = fmt.Fprintln(os.Stdout, "Reset cancelled.")
			return nil
		}
	}

	if err := g.Reset(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Credentials reset. Run 'gistvault auth setup' to create new ones.")

	return nil
}

func stateLabel(s gate.State) string {
	switch s {
	case gate.Authenticated:
		return okStyle.Render(s.String())
	case gate.NeedsLogin:
		return warnStyle.Render(s.String())
	default:
		return errorStyle.Render(s.String())
	}
}
