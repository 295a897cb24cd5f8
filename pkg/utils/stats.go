package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\S+`)

// CodeStats summarizes the editor document
type CodeStats struct {
	Lines  int `json:"lines" yaml:"lines"`
	Tokens int `json:"tokens" yaml:"tokens"`
}

// StatsFor counts lines and estimates how many model tokens code costs
// when it is sent to the AI tutor
func StatsFor(code string) CodeStats {
	if code == "" {
		return CodeStats{}
	}
	return CodeStats{
		Lines:  strings.Count(code, "\n") + 1,
		Tokens: EstimateTokens(code),
	}
}

// EstimateTokens approximates the token count of source code. Code runs
// denser than prose, around 3 characters per token, so the character
// estimate is averaged with a word based one.
func EstimateTokens(code string) int {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0
	}

	charEstimate := len(code) / 3
	wordEstimate := int(float64(len(wordPattern.FindAllString(code, -1))) * 1.3)

	estimate := (charEstimate + wordEstimate) / 2
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

// FormatTokenCount formats a token count for display
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	} else if tokens < 10000 {
		return fmt.Sprintf("~%.1fK tokens", float64(tokens)/1000)
	}
	return fmt.Sprintf("~%.0fK tokens", float64(tokens)/1000)
}

// String renders stats for the editor header, e.g. "2 lines ~9 tokens"
func (s CodeStats) String() string {
	unit := "lines"
	if s.Lines == 1 {
		unit = "line"
	}
	return fmt.Sprintf("%d %s %s", s.Lines, unit, FormatTokenCount(s.Tokens))
}
