package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/files"
	"github.com/pytutor/pytutor-terminal/pkg/models"
)

var configForce bool

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings",
		Long: `Show the settings pytutor runs with: defaults, overlaid with
settings.yaml from the state directory and PYTUTOR_* environment
variables (e.g. PYTUTOR_SERVICE_BASE_URL).`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the defaults",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing settings file")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := commandContext()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), files.SettingsPath(cc.StateDir))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open the settings file in your editor",
		Args:  cobra.NoArgs,
		RunE:  runConfigEdit,
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cc, err := commandContext()
	if err != nil {
		return err
	}

	settings, err := cc.LoadSettings()
	if err != nil {
		return err
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, settings)
	}

	editor := settings.Editor.Command
	if editor == "" {
		editor = "(from $EDITOR)"
	}

	tf := cli.NewTableFormatter(cmd.OutOrStdout())
	tf.Header("KEY", "VALUE")
	tf.Row("service.base_url", cli.TruncateString(settings.Service.BaseURL, 60))
	tf.Row("service.timeout_seconds", strconv.Itoa(settings.Service.TimeoutSeconds))
	tf.Row("editor.language", settings.Editor.Language)
	tf.Row("editor.autosave_delay_ms", strconv.Itoa(settings.Editor.AutosaveDelayMS))
	tf.Row("editor.command", cli.TruncateString(editor, 40))
	tf.Row("ui.status_duration_ms", strconv.Itoa(settings.UI.StatusDurationMS))
	tf.Row("session.fence_stale_responses", strconv.FormatBool(settings.Session.FenceStaleResponses))
	tf.Flush()
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cc, err := commandContext()
	if err != nil {
		return err
	}

	path := files.SettingsPath(cc.StateDir)
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("settings file already exists: %s (use --force to overwrite)", path)
	}

	if err := files.WriteSettings(path, models.DefaultSettings()); err != nil {
		return err
	}
	cli.PrintSuccess("Wrote %s", path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	cc, err := commandContext()
	if err != nil {
		return err
	}

	path := files.SettingsPath(cc.StateDir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := files.WriteSettings(path, models.DefaultSettings()); err != nil {
			return err
		}
	}

	settings := cc.LoadSettingsWithDefault(cmd.Context())
	if err := cli.NewEditorLauncher(settings.Editor.Command).OpenFile(path); err != nil {
		return err
	}

	if _, err := files.ReadSettings(path); err != nil {
		cli.PrintWarning("Settings are invalid and will be ignored: %v", err)
		return nil
	}
	cli.PrintSuccess("Settings updated")
	return nil
}
