package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pytutor/pytutor-terminal/internal/cli"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/render"
	"github.com/pytutor/pytutor-terminal/pkg/session"
	"github.com/pytutor/pytutor-terminal/pkg/theme"
)

// writeClipboard is swapped out in tests
var writeClipboard = clipboard.WriteAll

const defaultRenderWidth = 80

var assistDocs = map[models.OperationKind]struct {
	short   string
	title   string
	example string
}{
	models.OpHint: {
		short:   "Ask the AI tutor for a hint",
		title:   "AI Tutor Insight:",
		example: "pytutor hint script.py",
	},
	models.OpExplain: {
		short:   "Ask the AI tutor to explain the code",
		title:   "AI Code Explanation:",
		example: "pytutor explain script.py",
	},
	models.OpFix: {
		short:   "Ask the AI tutor for a fixed version of the code",
		title:   "AI Suggested Fix:",
		example: "pytutor fix script.py --copy",
	},
}

type codeBlockResult struct {
	Number   int    `json:"number" yaml:"number"`
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
}

type assistResult struct {
	Kind       string            `json:"kind" yaml:"kind"`
	Text       string            `json:"text" yaml:"text"`
	CodeBlocks []codeBlockResult `json:"code_blocks" yaml:"code_blocks"`
}

// NewAssistCommand creates the hint, explain or fix command
func NewAssistCommand(kind models.OperationKind) *cobra.Command {
	doc := assistDocs[kind]
	long := doc.short + `.

Without a file argument the code saved by the editor is used. Numbered
code blocks in the reply can be copied with --copy.`
	if kind.SendsError() {
		long += `

The tutor also receives the error of the code. Unless --error is given,
the code is run first to get it.`
	}

	cmd := &cobra.Command{
		Use:   kind.String() + " [file|-]",
		Short: doc.short,
		Long:  long + "\n\nExamples:\n  " + doc.example,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssist(cmd, kind, args)
		},
	}

	cmd.Flags().String("copy", "", "Copy code block N of the reply to the clipboard (default 1)")
	cmd.Flags().Lookup("copy").NoOptDefVal = "1"
	if kind.SendsError() {
		cmd.Flags().String("error", "", "Error text to send instead of running the code")
	}

	return cmd
}

func runAssist(cmd *cobra.Command, kind models.OperationKind, args []string) error {
	ctx := cmd.Context()
	cc, err := commandContext()
	if err != nil {
		return err
	}

	code, err := sourceCode(ctx, cmd, cc, args)
	if err != nil {
		return err
	}

	client := cc.Client(ctx)
	ctrl := session.NewController(code)

	var errText *string
	if kind.SendsError() {
		if cmd.Flags().Changed("error") {
			v, _ := cmd.Flags().GetString("error")
			errText = &v
		} else {
			cli.PrintInfo("Running code to collect its error...")
			if _, err := perform(ctx, client, ctrl, models.OpExecute, nil); err != nil {
				return err
			}
		}
	}

	st, err := perform(ctx, client, ctrl, kind, errText)
	if err != nil {
		return err
	}
	text := st.AssistText(kind)
	plan := render.Parse(text, cc.LoadSettingsWithDefault(ctx).Editor.Language)
	blocks := plan.CodeBlocks()

	if copyArg, _ := cmd.Flags().GetString("copy"); copyArg != "" {
		if err := copyBlock(blocks, copyArg); err != nil {
			return err
		}
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		result := assistResult{Kind: kind.String(), Text: text, CodeBlocks: []codeBlockResult{}}
		for _, b := range blocks {
			result.CodeBlocks = append(result.CodeBlocks, codeBlockResult{
				Number:   b.Index + 1,
				Language: b.Language,
				Code:     b.Text,
			})
		}
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}

	th, err := theme.Load(cc.Store(ctx))
	if err != nil {
		cli.PrintWarning("%v", err)
	}
	var opts []render.RendererOption
	if cli.NoColor() {
		opts = append(opts, render.WithPlain())
	}
	r, err := render.NewRenderer(th.Current(), renderWidth(), opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), assistDocs[kind].title)
	fmt.Fprintln(cmd.OutOrStdout(), r.Render(plan, 0, nil))
	return nil
}

func copyBlock(blocks []render.Block, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid --copy value: %s", arg)
	}
	if n > len(blocks) {
		return fmt.Errorf("reply has no code block %d", n)
	}
	if err := writeClipboard(blocks[n-1].Text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	cli.PrintSuccess("Copied code block %d to clipboard", n)
	return nil
}

// renderWidth follows $COLUMNS when the shell exports it
func renderWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return defaultRenderWidth
}
