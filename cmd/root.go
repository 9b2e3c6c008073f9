package cmd

import (
	"os"

	"github.com/inovacc/gistvault/internal/application"
	"github.com/spf13/cobra"
)

var (
	rootToken    string
	rootAppDir   string
	rootLogLevel string
	rootStorage  string
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Keep JSON documents in GitHub gists",
	Long: `Gistvault is a command-line tool for keeping JSON documents in GitHub gists.

A local username and password gate protects every command that touches
remote documents. An app-level settings gist indexes the data gists you
work with, and small secrets can be kept encrypted on this machine.

Getting started:
  gistvault auth setup
  gistvault auth login
  gistvault doc create`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initApp()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnFinalize(closeApp)

	rootCmd.PersistentFlags().StringVar(&rootToken, "token", "", "GitHub token (default: GISTVAULT_TOKEN, GITHUB_TOKEN, GH_TOKEN, config, gh CLI)")
	rootCmd.PersistentFlags().StringVar(&rootAppDir, "config", "", "Application directory holding config.ini and local data")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&rootStorage, "storage", "", "Local storage driver: bolt, sqlite, memory")
}
