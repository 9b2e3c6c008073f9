package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/inovacc/gistvault/internal/auth"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gistvault configuration",
	Long: `Commands for managing gistvault configuration.

Settings are read from config.ini in the application directory, then from a
.env file in the working directory, then from GISTVAULT_* environment
variables, then from flags.

Available Commands:
  show      Print the effective configuration
  init      Write a config file with the current values`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current values",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg := app.cfg

	apiURL := cfg.GitHub.APIURL
	if apiURL == "" {
		apiURL = "https://api.github.com/"
	}

	storagePath := cfg.Storage.Path
	if storagePath == "" {
		storagePath = "(default in application directory)"
	}

	token, err := auth.NewGitHubResolver(rootToken, cfg.GitHub.Token, cfg.GitHub.Host).Resolve()
	if err != nil {
		return err
	}

	tokenSource := warnStyle.Render("not found")
	if token.Found() {
		tokenSource = okStyle.Render(token.Name)
	}

	_, _ = fmt.Fprintln(os.Stdout, headerStyle.Render("Configuration"))
	printField("Config file", cfg.Path())
	printField("App directory", cfg.AppDir)
	printField("Session dir", cfg.SessionDir())
	printField("API URL", apiURL)
	printField("GitHub host", cfg.GitHub.Host)
	printField("Token", tokenSource)
	printField("Timeout", cfg.GitHub.Timeout.String())
	printField("Storage", cfg.Storage.Driver)
	printField("Storage path", storagePath)
	printField("Session TTL", cfg.Session.TTL.String())
	printField("Hasher", cfg.Auth.Hasher)
	printField("Log", cfg.Log.Level+" ("+cfg.Log.Format+")")
	printField("Default file", cfg.Documents.DefaultFile)
	printField("Description", cfg.Documents.Description)

	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := app.cfg.Path()

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := app.cfg.Save(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Wrote %s\n", okStyle.Render("✓"), path)

	return nil
}
