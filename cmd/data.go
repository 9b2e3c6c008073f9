package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/inovacc/gistvault/internal/encoding"
	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/settings"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export and import gist pointers",
	Long: `Export and import the gist ids this machine uses, so another machine can
pick up the same documents.

Credentials are never exported.`,
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export gist pointers",
	Long: `Write the current document id and settings gist id to a file.

With --seal the export is encrypted with a password using AES-256-GCM and
encoded in base58 for easy copy/paste.

Examples:
  gistvault data export
  gistvault data export --output backup.json
  gistvault data export --seal --output -`,
	Args: cobra.NoArgs,
	RunE: runDataExport,
}

var dataImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import gist pointers",
	Long: `Restore gist ids from a previous export.

Examples:
  gistvault data import
  gistvault data import --file backup.json
  gistvault data import --seal --file backup.txt

A sealed import prompts for its password on stdin, so the backup must be
given with --file.`,
	Args: cobra.NoArgs,
	RunE: runDataImport,
}

var (
	dataExportOutput string
	dataImportFile   string
	dataSeal         bool
)

func init() {
	rootCmd.AddCommand(dataCmd)

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)

	dataCmd.PersistentFlags().BoolVar(&dataSeal, "seal", false, "Encrypt with a password and armor as base58")

	dataExportCmd.Flags().StringVarP(&dataExportOutput, "output", "o", settings.ExportFile, "Output file ('-' for stdout)")
	dataImportCmd.Flags().StringVarP(&dataImportFile, "file", "f", settings.ExportFile, "Input file ('-' for stdin)")
}

// localSettings gives access to the pointers without a GitHub client.
func localSettings() (*settings.Service, error) {
	if err := requireLogin(); err != nil {
		return nil, err
	}

	durable, err := durableStore()
	if err != nil {
		return nil, err
	}

	return settings.NewService(nil, durable), nil
}

func runDataExport(_ *cobra.Command, _ []string) error {
	svc, err := localSettings()
	if err != nil {
		return err
	}

	p, err := svc.Portable()
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if dataSeal {
		password, err := readNewPassword("Enter encryption password: ")
		if err != nil {
			return err
		}

		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		err = svc.ExportSealed(&buf, password)
		if err != nil {
			return err
		}
	} else if err := svc.Export(&buf); err != nil {
		return err
	}

	if dataExportOutput == "-" {
		_, _ = os.Stdout.Write(buf.Bytes())
		return nil
	}

	path, err := expandPath(dataExportOutput)
	if err != nil {
		return err
	}

	if err := encoding.WriteFileSecure(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Exported to %s\n", okStyle.Render("✓"), path)
	printPortable(p)

	return nil
}

func runDataImport(_ *cobra.Command, _ []string) error {
	if dataSeal && dataImportFile == "-" {
		return errors.New("--seal reads the password from stdin; pass the backup with --file")
	}

	svc, err := localSettings()
	if err != nil {
		return err
	}

	var input io.Reader = stdinReader

	if dataImportFile != "-" {
		path, err := expandPath(dataImportFile)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		input = bytes.NewReader(data)
	}

	var p model.Portable

	if dataSeal {
		password, err := readPassword("Enter decryption password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		p, err = svc.ImportSealed(input, password)
		if err != nil {
			return fmt.Errorf("failed to import (wrong password?): %w", err)
		}
	} else if p, err = svc.Import(input); err != nil {
		return err
	}

	if p.GistID == "" && p.SettingsGistID == "" {
		_, _ = fmt.Fprintln(os.Stdout, "Import contained no gist ids; nothing changed.")
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Imported\n", okStyle.Render("✓"))
	printPortable(p)

	return nil
}

func printPortable(p model.Portable) {
	if p.GistID != "" {
		printField("Document gist", idStyle.Render(p.GistID))
	}

	if p.SettingsGistID != "" {
		printField("Settings gist", idStyle.Render(p.SettingsGistID))
	}
}
