package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/render"
	"github.com/pytutor/pytutor-terminal/pkg/session"
)

var assistSections = []struct {
	kind  models.OperationKind
	title string
}{
	{models.OpHint, "AI Tutor Insight:"},
	{models.OpExplain, "AI Code Explanation:"},
	{models.OpFix, "AI Suggested Fix:"},
}

// outputPane is the rendered output plus the code blocks that can be
// copied from it, in label order
type outputPane struct {
	content string
	blocks  []render.Block
}

// buildOutput lays out execution results and assist replies. Code
// blocks are numbered across all assist replies so each has a unique
// copy key.
func buildOutput(st session.State, r *render.Renderer, styles Styles, copies *render.CopyTracker, lang string) outputPane {
	width := r.Width()
	var sections []string
	var pane outputPane

	out := styles.Section.Render("Output:") + "\n"
	if st.Output != "" {
		out += styles.Normal.Render(wrapText(st.Output, width))
	} else {
		out += styles.Dim.Render("(nothing yet)")
	}
	sections = append(sections, out)

	if st.Error != "" {
		sections = append(sections,
			styles.Section.Render("Errors (Python Traceback):")+"\n"+
				styles.Error.Render(wrapText(st.Error, width)))
	}

	if len(st.Hints) > 0 {
		lines := []string{styles.Section.Render("Intelligent Tutor Suggestions:")}
		for _, h := range st.Hints {
			lines = append(lines, styles.HintStyle(h.Type).Render(wrapText("• "+h.Label(), width)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	for _, s := range assistSections {
		text := st.AssistText(s.kind)
		if text == "" {
			continue
		}
		plan := render.Parse(text, lang)
		offset := len(pane.blocks)
		pane.blocks = append(pane.blocks, plan.CodeBlocks()...)
		sections = append(sections,
			styles.Section.Render(s.title)+"\n"+r.Render(plan, offset, copies.Copied))
	}

	pane.content = strings.Join(sections, "\n\n")
	return pane
}

// wrapText soft-wraps at spaces and hard-wraps what still does not fit
func wrapText(s string, width int) string {
	s = strings.TrimRight(s, "\n")
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}
