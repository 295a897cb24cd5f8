package commands

import (
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/session"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Run code on the tutoring service",
		Long: `Send code to the tutoring service and print its output, the Python
traceback if any, and the tutor's suggestions.

Without an argument the code saved by the editor is used.

Examples:
  # Run the saved code
  pytutor run

  # Run a file
  pytutor run script.py

  # Run from stdin and print JSON
  echo 'print(1)' | pytutor run - -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	code, err := sourceCode(ctx, cmd, cc, args)
	if err != nil {
		return err
	}

	pslog.Ctx(ctx).Debug("running code", "bytes", len(code))
	ctrl := session.NewController(code)
	st, err := perform(ctx, cc.Client(ctx), ctrl, models.OpExecute, nil)
	if err != nil {
		return err
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, newExecutionResult(st))
	}
	writeExecution(cmd.OutOrStdout(), st)
	return nil
}
