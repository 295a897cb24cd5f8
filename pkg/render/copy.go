package render

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultCopiedDuration is how long a block shows "Copied!"
const DefaultCopiedDuration = 2 * time.Second

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// CopyExpiredMsg reverts one block's label
type CopyExpiredMsg struct {
	Number int
	tag    int
}

// CopyTracker keeps the "Copied!" state per code block, keyed by the
// block's number in the output pane, so copying one block never changes
// another block's label.
type CopyTracker struct {
	Duration time.Duration
	// Clipboard overrides the system clipboard when set
	Clipboard func(string) error
	copied    map[int]int
	tag       int
}

// NewCopyTracker creates a tracker with the default 2s revert
func NewCopyTracker() *CopyTracker {
	return &CopyTracker{
		Duration: DefaultCopiedDuration,
		copied:   map[int]int{},
	}
}

// Copy puts text on the system clipboard, marks number as copied and
// returns the command that reverts the label.
func (c *CopyTracker) Copy(number int, text string) (tea.Cmd, error) {
	write := c.Clipboard
	if write == nil {
		write = clipboardWrite
	}
	if err := write(text); err != nil {
		return nil, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	c.tag++
	tag := c.tag
	c.copied[number] = tag
	return tea.Tick(c.Duration, func(time.Time) tea.Msg {
		return CopyExpiredMsg{Number: number, tag: tag}
	}), nil
}

// Expire clears the label if msg belongs to the latest copy of its block
func (c *CopyTracker) Expire(msg CopyExpiredMsg) {
	if c.copied[msg.Number] == msg.tag {
		delete(c.copied, msg.Number)
	}
}

// Copied reports whether number currently shows "Copied!"
func (c *CopyTracker) Copied(number int) bool {
	_, ok := c.copied[number]
	return ok
}

// Reset forgets every copied block, e.g. when the content changes
func (c *CopyTracker) Reset() {
	c.copied = map[int]int{}
}
