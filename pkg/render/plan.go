// Package render turns AI-assist markdown into something a terminal can
// show: prose is handed to a markdown renderer, fenced code blocks are
// pulled out so they can be highlighted and copied on their own.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind distinguishes prose from fenced code
type BlockKind int

const (
	BlockProse BlockKind = iota
	BlockCode
)

// Block is one run of a render plan
type Block struct {
	Kind BlockKind
	// Markdown source for prose, exact code (no trailing newline) for code
	Text string
	// Language tag of a code block
	Language string
	// Position among the plan's code blocks, starting at 0
	Index int
}

// Copyable reports whether the block gets a copy control
func (b Block) Copyable() bool {
	return b.Kind == BlockCode
}

// Plan is the ordered list of blocks for one markdown document
type Plan struct {
	Blocks []Block
}

// CodeBlocks returns the fenced code blocks in order
func (p Plan) CodeBlocks() []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == BlockCode {
			out = append(out, b)
		}
	}
	return out
}

// Empty reports whether there is nothing to render
func (p Plan) Empty() bool {
	return len(p.Blocks) == 0
}

var markdownParser = goldmark.New().Parser()

// Parse splits markdown into prose and fenced code blocks, including
// fences nested in list items and blockquotes. Code blocks without an
// info string are tagged defaultLang. An unclosed fence runs to the end
// of the input. Inline code spans stay in the prose.
func Parse(markdown, defaultLang string) Plan {
	var plan Plan
	if strings.TrimSpace(markdown) == "" {
		return plan
	}

	source := []byte(strings.ReplaceAll(markdown, "\r\n", "\n"))
	doc := markdownParser.Parse(text.NewReader(source))

	cursor := 0
	addProse := func(end int) {
		if end > cursor {
			if src := strings.Trim(string(source[cursor:end]), "\n"); strings.Trim(src, " \t\n>") != "" {
				plan.Blocks = append(plan.Blocks, Block{Kind: BlockProse, Text: src})
			}
		}
	}

	codeIndex := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		start, end := fenceRange(source, fcb, cursor)
		addProse(start)

		lang := ""
		if fcb.Info != nil {
			lang = languageFromInfo(string(fcb.Info.Segment.Value(source)))
		}
		if lang == "" {
			lang = defaultLang
		}
		plan.Blocks = append(plan.Blocks, Block{
			Kind:     BlockCode,
			Text:     codeText(source, fcb),
			Language: lang,
			Index:    codeIndex,
		})
		codeIndex++
		if end > cursor {
			cursor = end
		}
		return ast.WalkSkipChildren, nil
	})
	addProse(len(source))
	return plan
}

// codeText is the exact content of a fenced block minus its final newline
func codeText(source []byte, fcb *ast.FencedCodeBlock) string {
	var b strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString(strings.Repeat(" ", seg.Padding))
		b.Write(seg.Value(source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// fenceRange returns the source bytes a fenced block occupies, from the
// start of its opening fence line to the end of its closing fence line
func fenceRange(source []byte, fcb *ast.FencedCodeBlock, from int) (int, int) {
	lines := fcb.Lines()
	var start, end int
	switch {
	case lines.Len() > 0:
		first := lines.At(0)
		start = lineStart(source, lineStart(source, first.Start)-1)
		end = lineEnd(source, lines.At(lines.Len()-1).Start)
	case fcb.Info != nil:
		start = lineStart(source, fcb.Info.Segment.Start)
		end = lineEnd(source, start)
	default:
		start = nextFenceLine(source, from)
		end = lineEnd(source, start)
	}
	if start < from {
		start = from
	}

	if end < len(source) && isFenceLine(source[end:lineEnd(source, end)]) {
		end = lineEnd(source, end)
	}
	return start, end
}

func lineStart(source []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(source) {
		pos = len(source)
	}
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func lineEnd(source []byte, pos int) int {
	if pos >= len(source) {
		return len(source)
	}
	i := bytes.IndexByte(source[pos:], '\n')
	if i < 0 {
		return len(source)
	}
	return pos + i + 1
}

// isFenceLine reports whether line is a bare fence such as ``` or
// > ~~~~, with blockquote markers and indentation ignored
func isFenceLine(line []byte) bool {
	rest := strings.TrimLeft(string(line), " \t>")
	rest = strings.TrimRight(rest, " \t\n")
	if len(rest) < 3 || (rest[0] != '`' && rest[0] != '~') {
		return false
	}
	return strings.Trim(rest, rest[:1]) == ""
}

// nextFenceLine finds the opening line of an empty block without info
func nextFenceLine(source []byte, from int) int {
	for pos := from; pos < len(source); pos = lineEnd(source, pos) {
		if isFenceLine(source[pos:lineEnd(source, pos)]) {
			return pos
		}
	}
	return len(source)
}

func languageFromInfo(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	lang := strings.TrimPrefix(fields[0], "language-")
	lang = strings.Trim(lang, "{}.")
	return strings.ToLower(lang)
}
