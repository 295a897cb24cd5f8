package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCode is the sample program shown on first run and after a reset.
const DefaultCode = "print(\"Hello, Intelligent Tutor!\")\n# Try changing this code!"

// DefaultLanguage is the language the editor edits and the fallback tag
// for fenced code blocks without an info string.
const DefaultLanguage = "python"

// Persistence store keys
const (
	KeySourceCode = "pythonTutorCode"
	KeyTheme      = "theme"
)

// OperationKind identifies one of the four remote operations
type OperationKind int

const (
	OpExecute OperationKind = iota
	OpHint
	OpExplain
	OpFix
)

// AllOperations lists the operation kinds in display order
var AllOperations = []OperationKind{OpExecute, OpHint, OpExplain, OpFix}

func (k OperationKind) String() string {
	switch k {
	case OpExecute:
		return "execute"
	case OpHint:
		return "hint"
	case OpExplain:
		return "explain"
	case OpFix:
		return "fix"
	default:
		return fmt.Sprintf("operation(%d)", int(k))
	}
}

// IsAssist reports whether the operation produces an AI-assist text slot.
func (k OperationKind) IsAssist() bool {
	return k == OpHint || k == OpExplain || k == OpFix
}

// SendsError reports whether the request carries the last execution error.
func (k OperationKind) SendsError() bool {
	return k == OpHint || k == OpFix
}

// Noun is the human label used in synthesized failure messages.
func (k OperationKind) Noun() string {
	switch k {
	case OpHint:
		return "hint"
	case OpExplain:
		return "explanation"
	case OpFix:
		return "fix"
	default:
		return "execution"
	}
}

// Hint is one static-analysis or runtime suggestion returned by execute
type Hint struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
	Line    *int   `json:"line,omitempty" yaml:"line,omitempty"`
}

// Label formats the hint as "Error: message (Line: 3)".
func (h Hint) Label() string {
	kind := h.Type
	if kind == "" {
		kind = "info"
	}
	first, size := utf8.DecodeRuneInString(kind)
	label := string(unicode.ToUpper(first)) + kind[size:] + ": " + h.Message
	if h.Line != nil && *h.Line != 0 {
		label += fmt.Sprintf(" (Line: %d)", *h.Line)
	}
	return label
}

// ExecutionResult is the outcome of running the source on the service
type ExecutionResult struct {
	Output string `json:"output" yaml:"output"`
	Error  string `json:"error" yaml:"error"`
	Hints  []Hint `json:"hints" yaml:"hints"`
}

// Theme is the two-valued display theme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a persisted value to a Theme, defaulting to light.
func ParseTheme(value string) Theme {
	if Theme(strings.TrimSpace(strings.ToLower(value))) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
