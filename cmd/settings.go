package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the settings gist",
	Long: `Commands for the settings gist, a private gist that keeps the list of data
gists you use together with free-form user settings.

Available Commands:
  init      Create a new settings gist
  show      Print the settings document
  add       Register a gist
  remove    Unregister a gist
  check     Probe every registered gist
  set       Set a user setting`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new settings gist",
	Long: `Create a private "App Settings" gist holding settings.json and remember it.

An existing settings gist is not deleted; it is simply no longer used.`,
	Args: cobra.NoArgs,
	RunE: runSettingsInit,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings document",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsAddCmd = &cobra.Command{
	Use:   "add <gist-id> [description]",
	Short: "Register a gist",
	Long: `Add a gist to the settings document. Adding an id that is already
registered replaces its description and timestamp.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsAdd,
}

var settingsRemoveCmd = &cobra.Command{
	Use:     "remove <gist-id>",
	Aliases: []string{"rm"},
	Short:   "Unregister a gist",
	Args:    cobra.ExactArgs(1),
	RunE:    runSettingsRemove,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every registered gist",
	Long: `Check that every gist in the settings document can still be read.

Missing gists are reported, not removed. Use 'gistvault settings remove' to
clean them up.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCheck,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a user setting",
	Long: `Set one key of userSettings. Values that parse as JSON are stored as JSON,
anything else as a string.

Examples:
  gistvault settings set theme dark
  gistvault settings set pageSize 50
  gistvault settings set tags '["work","home"]'`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsInitCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAddCmd)
	settingsCmd.AddCommand(settingsRemoveCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	_, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	id, err := svc.Initialize(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Settings gist created: %s\n", okStyle.Render("✓"), idStyle.Render(id))

	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	_, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	current, err := svc.Load(ctx)
	if err != nil {
		return settingsHint(err)
	}

	id, _ := svc.SettingsID()
	printSettings(id, current)

	return nil
}

func runSettingsAdd(cmd *cobra.Command, args []string) error {
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	ctx, cancel := remoteContext(cmd)
	defer cancel()

	_, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.AddGist(ctx, args[0], description); err != nil {
		return settingsHint(err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Registered %s\n", okStyle.Render("✓"), idStyle.Render(args[0]))

	return nil
}

func runSettingsRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	_, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.RemoveGist(ctx, args[0]); err != nil {
		return settingsHint(err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Unregistered %s\n", okStyle.Render("✓"), idStyle.Render(args[0]))

	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	client, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	results, err := svc.Check(ctx, client)
	if err != nil {
		return settingsHint(err)
	}

	if len(results) == 0 {
		printEmptyResult("registered gists", "gistvault settings add <gist-id>")
		return nil
	}

	var missing, failed int

	for _, r := range results {
		status := okStyle.Render("ok")

		switch {
		case r.Err != nil:
			status = errorStyle.Render("error: " + r.Err.Error())
			failed++
		case !r.Exists:
			status = warnStyle.Render("missing")
			missing++
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s\n", idStyle.Render(r.Ref.ID), status, truncateString(r.Ref.Description, maxDescWidth))
	}

	_, _ = fmt.Fprintf(os.Stdout, "\n%d checked, %d missing, %d failed\n", len(results), missing, failed)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	_, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.SetUserSetting(ctx, args[0], parseSettingValue(args[1])); err != nil {
		return settingsHint(err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s %s updated\n", okStyle.Render("✓"), args[0])

	return nil
}

// parseSettingValue keeps JSON values typed and treats everything else as
// a plain string.
func parseSettingValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}

	return s
}

func settingsHint(err error) error {
	if errors.Is(err, settings.ErrNoSettingsGist) {
		return fmt.Errorf("%w: run 'gistvault settings init' or 'gistvault data import'", err)
	}

	return err
}

func printSettings(id string, s *model.Settings) {
	_, _ = fmt.Fprintln(os.Stdout, headerStyle.Render("Settings gist"))
	printField("ID", idStyle.Render(id))
	printField("Last updated", formatTime(s.LastUpdated))

	_, _ = fmt.Fprintf(os.Stdout, "\n%s\n", headerStyle.Render(fmt.Sprintf("Gists (%d)", len(s.Gists))))

	for _, g := range s.Gists {
		_, _ = fmt.Fprintf(os.Stdout, "  %s  %s  %s\n", idStyle.Render(g.ID), formatTime(g.AddedAt), truncateString(g.Description, maxDescWidth))
	}

	if len(s.UserSettings) == 0 {
		return
	}

	_, _ = fmt.Fprintf(os.Stdout, "\n%s\n", headerStyle.Render("User settings"))

	raw, err := json.MarshalIndent(s.UserSettings, "  ", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintf(os.Stdout, "  %s\n", strings.TrimSpace(string(raw)))
}
