package session

import (
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/service"
)

// Event is a discrete state transition applied by Controller.Apply
type Event interface {
	isEvent()
}

// Edited replaces the source text after a keystroke
type Edited struct {
	Code string
}

// Loaded replaces the source text with a persisted copy
type Loaded struct {
	Code string
}

// Reset restores the default source and clears every result slot
type Reset struct{}

// Started marks an operation as in flight. Controller.Begin emits it.
type Started struct {
	Request Request
}

// Completed carries the outcome of a remote operation. Exactly one of
// Execute, Assist and Err is expected to be set.
type Completed struct {
	Request Request
	Execute *service.ExecuteResponse
	Assist  *service.AssistResponse
	Err     error
}

func (Edited) isEvent()    {}
func (Loaded) isEvent()    {}
func (Reset) isEvent()     {}
func (Started) isEvent()   {}
func (Completed) isEvent() {}

// Request is what the remote call needs to run, captured at start time
type Request struct {
	Kind      models.OperationKind
	Code      string
	ErrorText string
	Seq       uint64
}
