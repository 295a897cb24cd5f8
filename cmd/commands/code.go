package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/utils"
)

// NewCodeCommand creates the code command and its subcommands
func NewCodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Manage the saved code",
		Long: `Show, replace, edit or reset the code the editor keeps between sessions.

Examples:
  # Print the saved code
  pytutor code show

  # Replace it with a file
  pytutor code save script.py

  # Edit it in $EDITOR
  pytutor code edit

  # Go back to the sample program
  pytutor code reset --yes`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved code",
		Args:  cobra.NoArgs,
		RunE:  runCodeShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "save <file|->",
		Short: "Replace the saved code with a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runCodeSave,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Edit the saved code in your editor",
		Args:  cobra.NoArgs,
		RunE:  runCodeEdit,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Replace the saved code with the sample program",
		Args:  cobra.NoArgs,
		RunE:  runCodeReset,
	})

	return cmd
}

type codeResult struct {
	Code  string          `json:"code" yaml:"code"`
	Saved bool            `json:"saved" yaml:"saved"`
	Stats utils.CodeStats `json:"stats" yaml:"stats"`
}

func runCodeShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	code, saved, err := cc.SourceCode(ctx)
	if err != nil {
		return err
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, codeResult{Code: code, Saved: saved, Stats: utils.StatsFor(code)})
	}
	if !saved {
		cli.PrintWarning("No saved code found! Showing the sample program.")
	}
	fmt.Fprintln(cmd.OutOrStdout(), code)
	return nil
}

func runCodeSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	code, err := sourceCode(ctx, cmd, cc, args)
	if err != nil {
		return err
	}
	if err := cc.Store(ctx).Set(models.KeySourceCode, code); err != nil {
		return err
	}

	cli.PrintSuccess("Code saved manually!")
	return nil
}

func runCodeEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	code, _, err := cc.SourceCode(ctx)
	if err != nil {
		return err
	}

	settings := cc.LoadSettingsWithDefault(ctx)
	launcher := cli.NewEditorLauncher(settings.Editor.Command)
	cli.PrintInfo("Opening code in %s...", launcher.DefaultEditor)
	edited, err := launcher.EditContent("pytutor-*.py", code)
	if err != nil {
		return err
	}

	if edited == code {
		cli.PrintInfo("No changes")
		return nil
	}
	if err := cc.Store(ctx).Set(models.KeySourceCode, edited); err != nil {
		return err
	}

	cli.PrintSuccess("Code saved manually!")
	return nil
}

func runCodeReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	ok, err := cli.Confirm("Replace the saved code with the sample program?", false)
	if err != nil {
		return err
	}
	if !ok {
		cli.PrintInfo("Reset cancelled")
		return nil
	}

	if err := cc.Store(ctx).Set(models.KeySourceCode, models.DefaultCode); err != nil {
		return err
	}

	cli.PrintSuccess("Code reset to default!")
	return nil
}
