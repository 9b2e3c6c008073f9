package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/inovacc/gistvault/internal/securestore"
	"github.com/inovacc/gistvault/internal/store"
	"github.com/spf13/cobra"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Keep small values encrypted on this machine",
	Long: `Commands for values stored encrypted in the local store.

Each value is encrypted with AES-256-GCM using a key derived from a secret
you type. The secret is never stored; losing it loses the value.

Available Commands:
  set       Store a value
  get       Print a value
  rm        Delete a value`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var secretSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSecretSet,
}

var secretGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretGet,
}

var secretRemoveCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove"},
	Short:   "Delete a value",
	Args:    cobra.ExactArgs(1),
	RunE:    runSecretRemove,
}

func init() {
	rootCmd.AddCommand(secretCmd)

	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretRemoveCmd)
}

func openSecrets() (*securestore.Store, error) {
	if err := requireLogin(); err != nil {
		return nil, err
	}

	durable, err := durableStore()
	if err != nil {
		return nil, err
	}

	return securestore.New(durable), nil
}

func runSecretSet(_ *cobra.Command, args []string) error {
	secrets, err := openSecrets()
	if err != nil {
		return err
	}

	secret, err := readNewPassword("Secret: ")
	if err != nil {
		return err
	}

	if err := secrets.Set(args[0], args[1], secret); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Stored %s\n", okStyle.Render("✓"), args[0])

	return nil
}

func runSecretGet(_ *cobra.Command, args []string) error {
	secrets, err := openSecrets()
	if err != nil {
		return err
	}

	secret, err := readPassword("Secret: ")
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}

	value, err := secrets.Get(args[0], secret)

	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("no value stored for %q", args[0])
	case errors.Is(err, securestore.ErrDecrypt):
		return fmt.Errorf("cannot decrypt %q: wrong secret?", args[0])
	case err != nil:
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, value)

	return nil
}

func runSecretRemove(_ *cobra.Command, args []string) error {
	secrets, err := openSecrets()
	if err != nil {
		return err
	}

	if err := secrets.Remove(args[0]); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])

	return nil
}
