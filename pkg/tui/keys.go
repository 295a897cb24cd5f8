package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the app's key bindings. Keys the editor needs for text
// entry are left alone.
type KeyMap struct {
	Run     key.Binding
	Hint    key.Binding
	Explain key.Binding
	Fix     key.Binding
	Save    key.Binding
	Load    key.Binding
	Reset   key.Binding
	Theme   key.Binding
	Focus   key.Binding
	Copy    key.Binding
	Up      key.Binding
	Down    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Run: key.NewBinding(
			key.WithKeys("f5", "ctrl+r"),
			key.WithHelp("f5", "run code"),
		),
		Hint: key.NewBinding(
			key.WithKeys("f6", "ctrl+g"),
			key.WithHelp("f6", "AI hint"),
		),
		Explain: key.NewBinding(
			key.WithKeys("f7", "ctrl+y"),
			key.WithHelp("f7", "explain"),
		),
		Fix: key.NewBinding(
			key.WithKeys("f8"),
			key.WithHelp("f8", "fix"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Load: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "load saved"),
		),
		Reset: key.NewBinding(
			key.WithKeys("f9"),
			key.WithHelp("f9", "reset"),
		),
		Theme: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "theme"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "esc"),
			key.WithHelp("tab", "editor/output"),
		),
		Copy: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "copy block"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Hint, k.Explain, k.Fix, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Hint, k.Explain, k.Fix},
		{k.Save, k.Load, k.Reset, k.Theme},
		{k.Focus, k.Copy, k.Up, k.Down},
		{k.Help, k.Quit},
	}
}
