package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/files"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/tui"
)

var (
	stateDir    string
	quiet       bool
	noColor     bool
	skipConfirm bool
)

// NewRootCommand creates the pytutor command tree. Without a subcommand
// it starts the interactive editor.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "pytutor",
		Short: "Terminal tutor for writing and running Python",
		Long: `pytutor is a terminal code tutor. Edit Python in a full-screen editor,
run it on the tutoring service and ask the AI tutor for hints,
explanations and fixes.

Your code and theme are kept in ~/.pytutor (or $PYTUTOR_HOME).`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format := outputFormat(cmd)
			if err := cli.ValidateOutputFormat(format); err != nil {
				return err
			}
			// Structured output must stay parseable
			q := quiet || format != string(cli.FormatText)
			cli.SetGlobalFlags(q, noColor, skipConfirm)
			cli.SetIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
		RunE: runInteractive,
	}

	root.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory (default $PYTUTOR_HOME or ~/.pytutor)")
	root.PersistentFlags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational messages")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors and highlighting")
	root.PersistentFlags().BoolVarP(&skipConfirm, "yes", "y", false, "Answer yes to confirmations")

	root.AddCommand(NewRunCommand())
	root.AddCommand(NewAssistCommand(models.OpHint))
	root.AddCommand(NewAssistCommand(models.OpExplain))
	root.AddCommand(NewAssistCommand(models.OpFix))
	root.AddCommand(NewCodeCommand())
	root.AddCommand(NewThemeCommand())
	root.AddCommand(NewConfigCommand())
	root.AddCommand(NewVersionCommand(version))

	return root
}

// commandContext resolves the state directory from --state-dir
func commandContext() (*cli.CommandContext, error) {
	return cli.NewCommandContext(stateDir)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cc, err := commandContext()
	if err != nil {
		return err
	}

	// The screen belongs to the TUI, so log to a file instead
	logFile, err := os.OpenFile(files.LogPath(cc.StateDir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := pslog.NewWithOptions(logFile, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	})
	ctx := pslog.ContextWithLogger(cmd.Context(), logger)

	settings := cc.LoadSettingsWithDefault(ctx)
	app := tui.NewApp(tui.Options{
		Settings: *settings,
		Service:  cc.Client(ctx),
		Store:    cc.Store(ctx),
		Context:  ctx,
	})

	logger.Info("session started", "service", settings.Service.BaseURL, "state_dir", cc.StateDir)
	err = tui.Run(ctx, app)
	if err != nil && !isCanceled(ctx) {
		return err
	}
	logger.Info("session ended")
	return nil
}

func isCanceled(ctx context.Context) bool {
	return ctx.Err() != nil
}

// outputFormat returns the --output flag value
func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return string(cli.FormatText)
	}
	return format
}
