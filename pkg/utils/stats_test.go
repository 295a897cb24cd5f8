package utils

import (
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t", 0},
		{"single character", "x", 1},
		// 34 chars / 3 = 11, 3 words * 1.3 = 3
		{"print call", `print("Hello, Intelligent Tutor!")`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.input); got != tt.expected {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStatsFor(t *testing.T) {
	if got := StatsFor(""); got != (CodeStats{}) {
		t.Errorf("StatsFor(\"\") = %+v, want zero", got)
	}

	got := StatsFor("x = 1\ny = 2\nprint(x + y)")
	if got.Lines != 3 {
		t.Errorf("Lines = %d, want 3", got.Lines)
	}
	if got.Tokens < 1 {
		t.Errorf("Tokens = %d, want at least 1", got.Tokens)
	}

	one := CodeStats{Lines: 1, Tokens: 4}
	if one.String() != "1 line ~4 tokens" {
		t.Errorf("String() = %q", one.String())
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		tokens   int
		expected string
	}{
		{0, "~0 tokens"},
		{999, "~999 tokens"},
		{1500, "~1.5K tokens"},
		{25000, "~25K tokens"},
	}

	for _, tt := range tests {
		if got := FormatTokenCount(tt.tokens); got != tt.expected {
			t.Errorf("FormatTokenCount(%d) = %q, want %q", tt.tokens, got, tt.expected)
		}
	}
}
