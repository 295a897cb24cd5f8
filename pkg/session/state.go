package session

import (
	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// State is the in-memory model of one tutoring session. It is owned by a
// single Controller and only changes through Controller.Apply.
type State struct {
	Code string

	// Execution result
	Output string
	Error  string
	Hints  []models.Hint

	// AI-assist slots (markdown)
	HintText        string
	ExplanationText string
	FixedCodeText   string

	busy [4]bool
}

// NewState returns a state holding code and empty result slots
func NewState(code string) State {
	return State{Code: code}
}

// Busy reports whether an operation of kind is in flight
func (s State) Busy(kind models.OperationKind) bool {
	if int(kind) < 0 || int(kind) >= len(s.busy) {
		return false
	}
	return s.busy[kind]
}

// AnyBusy reports whether any operation is in flight
func (s State) AnyBusy() bool {
	for _, b := range s.busy {
		if b {
			return true
		}
	}
	return false
}

// AssistText returns the slot belonging to an assist kind
func (s State) AssistText(kind models.OperationKind) string {
	switch kind {
	case models.OpHint:
		return s.HintText
	case models.OpExplain:
		return s.ExplanationText
	case models.OpFix:
		return s.FixedCodeText
	}
	return ""
}

// HasResults reports whether anything is worth showing in the output pane
func (s State) HasResults() bool {
	return s.Output != "" || s.Error != "" || len(s.Hints) > 0 ||
		s.HintText != "" || s.ExplanationText != "" || s.FixedCodeText != ""
}

func (s *State) setAssistText(kind models.OperationKind, text string) {
	switch kind {
	case models.OpHint:
		s.HintText = text
	case models.OpExplain:
		s.ExplanationText = text
	case models.OpFix:
		s.FixedCodeText = text
	}
}

func (s *State) clearAssist() {
	s.HintText = ""
	s.ExplanationText = ""
	s.FixedCodeText = ""
}

func (s *State) clearExecution() {
	s.Output = ""
	s.Error = ""
	s.Hints = nil
}

func (s State) clone() State {
	out := s
	if s.Hints != nil {
		out.Hints = append([]models.Hint(nil), s.Hints...)
	}
	return out
}
