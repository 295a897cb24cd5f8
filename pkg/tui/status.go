package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Save feedback shown in the status bar
const (
	StatusAutoSaved = "Code saved automatically!"
	StatusSaved     = "Code saved manually!"
	StatusLoaded    = "Loaded saved code!"
	StatusNoSaved   = "No saved code found!"
	StatusCodeReset = "Code reset to default!"
)

const defaultStatusDur = 2 * time.Second

// StatusFeedback represents a temporary status message
type StatusFeedback struct {
	Message   string
	Icon      string
	ShowUntil time.Time
	Type      StatusType
}

// StatusType represents the type of status message
type StatusType int

const (
	StatusTypeSuccess StatusType = iota
	StatusTypeWarning
	StatusTypeError
	StatusTypeInfo
)

// StatusManager manages temporary status messages
type StatusManager struct {
	CurrentStatus   *StatusFeedback
	DefaultDuration time.Duration
	now             func() time.Time
}

// NewStatusManager creates a new status manager
func NewStatusManager(duration time.Duration) *StatusManager {
	if duration <= 0 {
		duration = defaultStatusDur
	}
	return &StatusManager{
		DefaultDuration: duration,
		now:             time.Now,
	}
}

// ShowFeedback displays a status message with an icon. A newer message
// replaces the current one; the returned command only triggers a redraw.
func (sm *StatusManager) ShowFeedback(icon, message string, statusType StatusType) tea.Cmd {
	sm.CurrentStatus = &StatusFeedback{
		Message:   message,
		Icon:      icon,
		ShowUntil: sm.now().Add(sm.DefaultDuration),
		Type:      statusType,
	}

	return tea.Tick(sm.DefaultDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// ShowSuccess shows a success message
func (sm *StatusManager) ShowSuccess(message string) tea.Cmd {
	return sm.ShowFeedback("✓", message, StatusTypeSuccess)
}

// ShowWarning shows a warning message
func (sm *StatusManager) ShowWarning(message string) tea.Cmd {
	return sm.ShowFeedback("⚠", message, StatusTypeWarning)
}

// ShowError shows an error message
func (sm *StatusManager) ShowError(message string) tea.Cmd {
	return sm.ShowFeedback("×", message, StatusTypeError)
}

// ShowInfo shows an info message
func (sm *StatusManager) ShowInfo(message string) tea.Cmd {
	return sm.ShowFeedback("ℹ", message, StatusTypeInfo)
}

// Clear removes the current status
func (sm *StatusManager) Clear() {
	sm.CurrentStatus = nil
}

// IsActive checks if a status is currently showing
func (sm *StatusManager) IsActive() bool {
	if sm.CurrentStatus == nil {
		return false
	}

	// Drop it once expired
	if !sm.now().Before(sm.CurrentStatus.ShowUntil) {
		sm.CurrentStatus = nil
		return false
	}

	return true
}

// GetStatus returns the current status message if active
func (sm *StatusManager) GetStatus() (string, bool) {
	if !sm.IsActive() {
		return "", false
	}
	return fmt.Sprintf("%s %s", sm.CurrentStatus.Icon, sm.CurrentStatus.Message), true
}

// Message returns the bare text of the active status
func (sm *StatusManager) Message() string {
	if !sm.IsActive() {
		return ""
	}
	return sm.CurrentStatus.Message
}

// ClearStatusMsg is sent when a status may have expired
type ClearStatusMsg struct{}
