package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// Copy control labels
const (
	LabelCopy   = "Copy"
	LabelCopied = "Copied!"
)

const minCodeWidth = 32

// Renderer draws a Plan for the terminal
type Renderer struct {
	theme models.Theme
	width int
	plain bool
	prose *glamour.TermRenderer
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithPlain disables colors: prose is only word-wrapped and code is not
// highlighted. Used for non-terminal output.
func WithPlain() RendererOption {
	return func(r *Renderer) {
		r.plain = true
	}
}

// NewRenderer creates a renderer for theme wrapping at width
func NewRenderer(theme models.Theme, width int, opts ...RendererOption) (*Renderer, error) {
	if width < minCodeWidth {
		width = minCodeWidth
	}
	r := &Renderer{theme: theme, width: width}
	for _, opt := range opts {
		opt(r)
	}
	if r.plain {
		return r, nil
	}
	prose, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle(theme)),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	r.prose = prose
	return r, nil
}

// Theme returns the theme the renderer was built for
func (r *Renderer) Theme() models.Theme {
	return r.theme
}

// Width returns the wrap width
func (r *Renderer) Width() int {
	return r.width
}

// Render draws plan. Code block labels are numbered from offset+1 and
// copied reports whether a block (by global number offset+Index) should
// show the transient "Copied!" label. copied may be nil.
func (r *Renderer) Render(plan Plan, offset int, copied func(int) bool) string {
	var parts []string
	for _, b := range plan.Blocks {
		switch b.Kind {
		case BlockProse:
			parts = append(parts, r.renderProse(b.Text))
		case BlockCode:
			n := offset + b.Index
			label := LabelCopy
			if copied != nil && copied(n) {
				label = LabelCopied
			}
			parts = append(parts, r.renderCode(b, n+1, label))
		}
	}
	return strings.Join(parts, "\n")
}

// RenderMarkdown parses and renders in one step
func (r *Renderer) RenderMarkdown(markdown, defaultLang string) string {
	return r.Render(Parse(markdown, defaultLang), 0, nil)
}

func (r *Renderer) renderProse(src string) string {
	if r.prose != nil {
		out, err := r.prose.Render(src)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(strings.TrimSpace(src), r.width)
}

func (r *Renderer) renderCode(b Block, number int, label string) string {
	header := fmt.Sprintf("%s  [%d] %s", b.Language, number, label)
	body := b.Text
	if !r.plain {
		body = Highlight(b.Text, b.Language, r.theme)
	}

	if r.plain {
		var sb strings.Builder
		sb.WriteString("--- " + header + " ---\n")
		sb.WriteString(body)
		sb.WriteString("\n---")
		return sb.String()
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor(r.theme)))
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor(r.theme))).
		Padding(0, 1).
		Width(r.width - 2)
	return headerStyle.Render(header) + "\n" + frame.Render(body)
}

// Highlight colors code for a 256-color terminal. Unknown languages are
// guessed from content, then left as plain text.
func Highlight(code, language string, theme models.Theme) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(chromaStyle(theme))
	if style == nil {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatters.TTY256.Format(&buf, style, it); err != nil {
		return code
	}
	// Drop the trailing blank lines chroma can append
	return strings.TrimRight(buf.String(), "\n")
}

func glamourStyle(theme models.Theme) string {
	if theme == models.ThemeDark {
		return "dark"
	}
	return "light"
}

func chromaStyle(theme models.Theme) string {
	if theme == models.ThemeDark {
		return "dracula"
	}
	return "github"
}

func accentColor(theme models.Theme) string {
	if theme == models.ThemeDark {
		return "170"
	}
	return "91"
}

func borderColor(theme models.Theme) string {
	if theme == models.ThemeDark {
		return "240"
	}
	return "245"
}
