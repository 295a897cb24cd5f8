package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/files"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/service"
	"github.com/pytutor/pytutor-terminal/pkg/session"
)

// perform runs one operation through a session controller, the same
// path the interactive editor takes, and returns the resulting state.
// errText overrides the error text sent with hint and fix requests.
func perform(ctx context.Context, client *service.Client, ctrl *session.Controller, kind models.OperationKind, errText *string) (session.State, error) {
	req, ok := ctrl.Begin(kind)
	if !ok {
		return ctrl.State(), fmt.Errorf("%s is already running", kind)
	}
	if errText != nil && kind.SendsError() {
		req.ErrorText = *errText
	}

	done := session.Completed{Request: req}
	if kind == models.OpExecute {
		done.Execute, done.Err = client.Execute(ctx, req.Code)
	} else {
		done.Assist, done.Err = client.Assist(ctx, kind, req.Code, req.ErrorText)
	}
	ctrl.Apply(done)

	st := ctrl.State()
	if done.Err != nil {
		msg := st.Error
		if kind.IsAssist() {
			msg = st.AssistText(kind)
		}
		return st, &operationError{Kind: kind, Message: msg, Err: done.Err}
	}
	return st, nil
}

// operationError reports a failed operation with the same text the
// editor shows in the operation's slot. main logs it once.
type operationError struct {
	Kind    models.OperationKind
	Message string
	Err     error
}

func (e *operationError) Error() string {
	return e.Message
}

func (e *operationError) Unwrap() error {
	return e.Err
}

// sourceCode picks the code to send: a file argument, "-" for stdin, or
// the saved editor document
func sourceCode(ctx context.Context, cmd *cobra.Command, cc *cli.CommandContext, args []string) (string, error) {
	if len(args) == 0 {
		code, _, err := cc.SourceCode(ctx)
		return code, err
	}
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	if err := cli.ValidateFilePath(args[0]); err != nil {
		return "", err
	}
	return files.ReadFile(args[0])
}

// writeExecution prints an execution result the way the editor's output
// pane lays it out
func writeExecution(w io.Writer, st session.State) {
	fmt.Fprintln(w, "Output:")
	if st.Output != "" {
		fmt.Fprintln(w, strings.TrimRight(st.Output, "\n"))
	}

	if st.Error != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors (Python Traceback):")
		fmt.Fprintln(w, strings.TrimRight(st.Error, "\n"))
	}

	if len(st.Hints) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Intelligent Tutor Suggestions:")
		for _, h := range st.Hints {
			fmt.Fprintf(w, "  %s\n", h.Label())
		}
	}
}

func newExecutionResult(st session.State) models.ExecutionResult {
	hints := st.Hints
	if hints == nil {
		hints = []models.Hint{}
	}
	return models.ExecutionResult{Output: st.Output, Error: st.Error, Hints: hints}
}
