package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/theme"
)

// NewThemeCommand creates the theme command
func NewThemeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or change the color theme",
		Long: `Show the current color theme, or set it. The editor and the rendered
AI replies follow it.

Examples:
  pytutor theme
  pytutor theme dark
  pytutor theme toggle`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE:      runTheme,
	}

	return cmd
}

func runTheme(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	th, err := theme.Load(cc.Store(ctx))
	if err != nil {
		cli.PrintWarning("%v", err)
	}

	if len(args) == 0 {
		format := outputFormat(cmd)
		if format != string(cli.FormatText) {
			return cli.OutputResults(cmd.OutOrStdout(), format, map[string]string{"theme": string(th.Current())})
		}
		fmt.Fprintln(cmd.OutOrStdout(), th.Current())
		return nil
	}

	var next models.Theme
	if args[0] == "toggle" {
		next = th.Current().Toggle()
	} else {
		next, err = cli.ValidateThemeName(args[0])
		if err != nil {
			return err
		}
	}

	if _, err := th.Set(next); err != nil {
		return err
	}
	cli.PrintSuccess("Theme set to %s", next)
	return nil
}
