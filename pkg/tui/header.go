package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws the one-line title bar: title on the left, info
// right-aligned
func renderHeader(width int, styles Styles, title, info string) string {
	contentWidth := width - 2 // -2 for left and right padding
	if contentWidth < 0 {
		contentWidth = 0
	}

	left := styles.Title.Render(title)
	right := styles.Dim.Render(info)
	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		lipgloss.NewStyle().Width(gap).Render(""),
		right,
	)
	return styles.Header.Render(headerContent)
}
