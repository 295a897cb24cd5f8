// Package autosave coalesces rapid edits into a single delayed write.
//
// Each Touch re-arms the timer by bumping a tag; ticks carrying an older
// tag are ignored when they arrive, which is how bubbletea components
// cancel a scheduled tick without reaching into the runtime.
package autosave

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the quiet period before an edit is persisted
const DefaultDelay = 500 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Writer persists one key/value pair
type Writer interface {
	Set(key, value string) error
}

// FireMsg is delivered when a scheduled delay elapses
type FireMsg struct {
	id  int
	tag int
}

// Debouncer owns a single pending timer
type Debouncer struct {
	Delay   time.Duration
	id      int
	tag     int
	pending bool
}

// NewDebouncer creates a debouncer; a non-positive delay uses DefaultDelay
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{Delay: delay, id: nextID()}
}

// Schedule (re)arms the timer, superseding any pending one
func (d *Debouncer) Schedule() tea.Cmd {
	d.tag++
	d.pending = true
	id, tag := d.id, d.tag
	return tea.Tick(d.Delay, func(time.Time) tea.Msg {
		return FireMsg{id: id, tag: tag}
	})
}

// Cancel drops the pending timer, if any
func (d *Debouncer) Cancel() {
	d.tag++
	d.pending = false
}

// Pending reports whether a timer is armed
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Fire reports whether msg is the live timer of this debouncer. It returns
// true at most once per Schedule.
func (d *Debouncer) Fire(msg FireMsg) bool {
	if msg.id != d.id || msg.tag != d.tag || !d.pending {
		return false
	}
	d.pending = false
	return true
}

// Autosaver writes the current text under Key once edits pause
type Autosaver struct {
	*Debouncer
	Key    string
	writer Writer
}

// New creates an autosaver writing to w under key
func New(w Writer, key string, delay time.Duration) *Autosaver {
	return &Autosaver{
		Debouncer: NewDebouncer(delay),
		Key:       key,
		writer:    w,
	}
}

// Touch records an edit and re-arms the timer
func (a *Autosaver) Touch() tea.Cmd {
	return a.Schedule()
}

// Handle persists text if msg is the live timer. saved is false for
// superseded ticks.
func (a *Autosaver) Handle(msg FireMsg, text string) (saved bool, err error) {
	if !a.Fire(msg) {
		return false, nil
	}
	if err := a.writer.Set(a.Key, text); err != nil {
		return false, fmt.Errorf("autosave %s: %w", a.Key, err)
	}
	return true, nil
}

// SaveNow writes text immediately and drops any pending timer
func (a *Autosaver) SaveNow(text string) error {
	a.Cancel()
	if err := a.writer.Set(a.Key, text); err != nil {
		return fmt.Errorf("save %s: %w", a.Key, err)
	}
	return nil
}
