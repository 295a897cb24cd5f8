package session

import (
	"fmt"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// Fallback texts used when the service gives us nothing to display
const (
	unknownServerError = "An unknown error occurred on the server."
)

// Controller owns the session State and enforces the rules for starting
// and completing the four remote operations.
type Controller struct {
	state       State
	defaultCode string
	fence       bool
	seq         uint64
	latest      uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithFencing discards the payload of a completion that is no longer the
// most recently started operation. Busy flags are released regardless.
func WithFencing(enabled bool) Option {
	return func(c *Controller) {
		c.fence = enabled
	}
}

// WithDefaultCode overrides the text restored on reset
func WithDefaultCode(code string) Option {
	return func(c *Controller) {
		c.defaultCode = code
	}
}

// NewController creates a controller starting from code
func NewController(code string, opts ...Option) *Controller {
	c := &Controller{
		state:       NewState(code),
		defaultCode: models.DefaultCode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return c.state.clone()
}

// Code returns the current source text
func (c *Controller) Code() string {
	return c.state.Code
}

// DefaultCode returns the text restored on reset
func (c *Controller) DefaultCode() string {
	return c.defaultCode
}

// CanStart reports whether kind may start now. An operation is rejected
// while it is already in flight; the assist operations are also rejected
// while execute is in flight.
func (c *Controller) CanStart(kind models.OperationKind) bool {
	if c.state.Busy(kind) {
		return false
	}
	if kind.IsAssist() && c.state.Busy(models.OpExecute) {
		return false
	}
	return true
}

// Begin starts kind if allowed, applying its start-of-operation clearing,
// and returns the request to send. ok is false when the start is rejected,
// in which case nothing changed.
func (c *Controller) Begin(kind models.OperationKind) (req Request, ok bool) {
	if !c.CanStart(kind) {
		return Request{}, false
	}
	c.seq++
	req = Request{
		Kind: kind,
		Code: c.state.Code,
		Seq:  c.seq,
	}
	if kind.SendsError() {
		req.ErrorText = c.state.Error
	}
	c.Apply(Started{Request: req})
	return req, true
}

// Apply is the single entry point for state transitions
func (c *Controller) Apply(ev Event) {
	switch ev := ev.(type) {
	case Edited:
		c.state.Code = ev.Code

	case Loaded:
		c.state.Code = ev.Code

	case Reset:
		c.state.Code = c.defaultCode
		c.state.clearExecution()
		c.state.clearAssist()

	case Started:
		kind := ev.Request.Kind
		c.state.busy[kind] = true
		c.latest = ev.Request.Seq
		if kind == models.OpExecute {
			c.state.clearExecution()
		}
		c.state.clearAssist()

	case Completed:
		c.complete(ev)
	}
}

func (c *Controller) complete(ev Completed) {
	kind := ev.Request.Kind
	defer func() { c.state.busy[kind] = false }()

	if c.fence && ev.Request.Seq != c.latest {
		return
	}

	if kind == models.OpExecute {
		c.completeExecute(ev)
		return
	}
	c.state.setAssistText(kind, assistText(ev))
}

func (c *Controller) completeExecute(ev Completed) {
	if ev.Err != nil || ev.Execute == nil {
		c.state.Error = fmt.Sprintf("Could not connect to the tutoring service. Error: %s", errText(ev.Err))
		c.state.Hints = nil
		return
	}
	resp := ev.Execute
	c.state.Output = resp.Output
	c.state.Error = resp.Error
	if !resp.Status.OK() && resp.Error == "" {
		c.state.Error = unknownServerError
	}
	c.state.Hints = append([]models.Hint(nil), resp.Hints...)
}

func assistText(ev Completed) string {
	kind := ev.Request.Kind
	if ev.Err != nil || ev.Assist == nil {
		return fmt.Sprintf("Could not connect to the AI %s service. Error: %s", kind.Noun(), errText(ev.Err))
	}
	if !ev.Assist.Status.OK() && ev.Assist.Text == "" {
		return fmt.Sprintf("Failed to get AI %s: %s", kind.Noun(), ev.Assist.Status)
	}
	return ev.Assist.Text
}

func errText(err error) string {
	if err == nil {
		return "empty response"
	}
	return err.Error()
}
