package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for active elements
	ColorInactive = "240" // Gray for inactive elements
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorWarning  = "214" // Orange/yellow for warnings
	ColorSuccess  = "28"  // Green for success
	ColorWhite    = "255"
	ColorDark     = "235"
	ColorPrimary  = "33" // Blue for primary actions
	ColorError    = "196"

	// Light theme counterparts
	ColorActiveLight = "91"
	ColorNormalLight = "238"
	ColorDimLight    = "246"
)

// Styles is the set of styles for one theme
type Styles struct {
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	Title          lipgloss.Style
	Header         lipgloss.Style
	Section        lipgloss.Style
	Normal         lipgloss.Style
	Dim            lipgloss.Style
	Error          lipgloss.Style
	Button         lipgloss.Style
	ButtonBusy     lipgloss.Style
	ButtonDisabled lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusError    lipgloss.Style
	StatusInfo     lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme models.Theme) Styles {
	active, normal, dim := ColorActive, ColorNormal, ColorDim
	if theme != models.ThemeDark {
		active, normal, dim = ColorActiveLight, ColorNormalLight, ColorDimLight
	}

	return Styles{
		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(active)),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorInactive)),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(active)).
			Bold(true),
		Header: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorWarning)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(normal)),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(dim)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(active)).
			Bold(true),
		ButtonBusy: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorInactive)),
		StatusSuccess: statusStyle(ColorSuccess, ColorWhite),
		StatusWarning: statusStyle(ColorWarning, ColorDark),
		StatusError:   statusStyle(ColorError, ColorWhite),
		StatusInfo:    statusStyle(ColorPrimary, ColorWhite),
	}
}

func statusStyle(bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1)
}

// Status picks the status bar style for t
func (s Styles) Status(t StatusType) lipgloss.Style {
	switch t {
	case StatusTypeWarning:
		return s.StatusWarning
	case StatusTypeError:
		return s.StatusError
	case StatusTypeInfo:
		return s.StatusInfo
	default:
		return s.StatusSuccess
	}
}

// HintStyle colors a hint label by its type
func (s Styles) HintStyle(hintType string) lipgloss.Style {
	switch hintType {
	case "error":
		return s.Error
	case "warning", "refactor":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	case "hint":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimary))
	default:
		return s.Normal
	}
}
