package session

import (
	"errors"
	"math/rand"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/service"
)

var okStatus = service.Status{Code: http.StatusOK, Text: "200 OK"}

func intPtr(v int) *int { return &v }

// filled returns a controller where every result slot holds something
func filled() *Controller {
	c := NewController("print(x)")
	c.state.Output = "old output"
	c.state.Error = "old error"
	c.state.Hints = []models.Hint{{Type: "warning", Message: "old"}}
	c.state.HintText = "old hint"
	c.state.ExplanationText = "old explanation"
	c.state.FixedCodeText = "old fix"
	return c
}

func TestBeginClearsOtherSlots(t *testing.T) {
	tests := []struct {
		kind          models.OperationKind
		keepExecution bool
	}{
		{kind: models.OpExecute, keepExecution: false},
		{kind: models.OpHint, keepExecution: true},
		{kind: models.OpExplain, keepExecution: true},
		{kind: models.OpFix, keepExecution: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := filled()

			req, ok := c.Begin(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.kind, req.Kind)

			s := c.State()
			assert.True(t, s.Busy(tt.kind))
			assert.Empty(t, s.HintText)
			assert.Empty(t, s.ExplanationText)
			assert.Empty(t, s.FixedCodeText)
			if tt.keepExecution {
				assert.Equal(t, "old output", s.Output)
				assert.Equal(t, "old error", s.Error)
				assert.Len(t, s.Hints, 1)
			} else {
				assert.Empty(t, s.Output)
				assert.Empty(t, s.Error)
				assert.Empty(t, s.Hints)
			}
		})
	}
}

func TestBeginCapturesInputs(t *testing.T) {
	c := filled()

	req, ok := c.Begin(models.OpHint)
	require.True(t, ok)
	assert.Equal(t, "print(x)", req.Code)
	assert.Equal(t, "old error", req.ErrorText)
	c.Apply(Completed{Request: req, Assist: &service.AssistResponse{Text: "h", Status: okStatus}})

	req, ok = c.Begin(models.OpExplain)
	require.True(t, ok)
	assert.Empty(t, req.ErrorText, "explain only sends the code")
	c.Apply(Completed{Request: req, Assist: &service.AssistResponse{Text: "e", Status: okStatus}})

	req, ok = c.Begin(models.OpFix)
	require.True(t, ok)
	assert.Equal(t, "old error", req.ErrorText)
	assert.Greater(t, req.Seq, uint64(2))
}

// Whatever order operations are started and completed in, starting X
// leaves every assist slot empty until X resolves.
func TestRandomSequencesClearOnStart(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := NewController("x = 1")
	pending := map[models.OperationKind]Request{}

	for i := 0; i < 500; i++ {
		kind := models.AllOperations[rng.Intn(len(models.AllOperations))]
		if req, inflight := pending[kind]; inflight && rng.Intn(2) == 0 {
			c.Apply(Completed{Request: req, Assist: &service.AssistResponse{Text: "text", Status: okStatus},
				Execute: &service.ExecuteResponse{Output: "out", Status: okStatus}})
			delete(pending, kind)
			assert.False(t, c.State().Busy(kind))
			continue
		}

		req, ok := c.Begin(kind)
		if !ok {
			continue
		}
		pending[kind] = req
		s := c.State()
		for _, other := range models.AllOperations {
			if other.IsAssist() {
				assert.Empty(t, s.AssistText(other), "after starting %s", kind)
			}
		}
	}
}

func TestBeginRejectedWhileBusy(t *testing.T) {
	c := NewController("print(1)")

	req, ok := c.Begin(models.OpExecute)
	require.True(t, ok)

	_, ok = c.Begin(models.OpExecute)
	assert.False(t, ok, "double submit must be rejected")
	for _, kind := range []models.OperationKind{models.OpHint, models.OpExplain, models.OpFix} {
		_, ok = c.Begin(kind)
		assert.False(t, ok, "%s must wait for execute", kind)
	}

	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{Status: okStatus}})

	hint, ok := c.Begin(models.OpHint)
	require.True(t, ok)
	_, ok = c.Begin(models.OpHint)
	assert.False(t, ok)

	// Different kinds are independent
	_, ok = c.Begin(models.OpExplain)
	assert.True(t, ok)
	_, ok = c.Begin(models.OpExecute)
	assert.True(t, ok)

	c.Apply(Completed{Request: hint, Err: errors.New("x")})
	assert.False(t, c.State().Busy(models.OpHint))
}

func TestRejectedBeginLeavesStateUntouched(t *testing.T) {
	c := filled()
	_, ok := c.Begin(models.OpFix)
	require.True(t, ok)
	c.state.HintText = "set meanwhile"
	before := c.State()

	_, ok = c.Begin(models.OpFix)
	require.False(t, ok)
	assert.Equal(t, before, c.State())
}

func TestExecuteSuccess(t *testing.T) {
	c := NewController("print(1)")
	req, _ := c.Begin(models.OpExecute)

	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{
		Output: "1\n", Error: "", Hints: []models.Hint{}, Status: okStatus,
	}})

	s := c.State()
	assert.Equal(t, "1\n", s.Output)
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Hints)
	assert.False(t, s.Busy(models.OpExecute))
}

func TestExecuteWithHints(t *testing.T) {
	c := NewController("print(x)")
	req, _ := c.Begin(models.OpExecute)

	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{
		Output: "",
		Error:  "NameError: x",
		Hints:  []models.Hint{{Type: "error", Message: "x is not defined", Line: intPtr(3)}},
		Status: okStatus,
	}})

	s := c.State()
	assert.Equal(t, "NameError: x", s.Error)
	require.Len(t, s.Hints, 1)
	assert.Equal(t, "Error: x is not defined (Line: 3)", s.Hints[0].Label())
}

func TestExecuteNonSuccessStatus(t *testing.T) {
	c := NewController("x")

	req, _ := c.Begin(models.OpExecute)
	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{
		Output: "partial",
		Hints:  []models.Hint{{Type: "error", Message: "m"}},
		Status: service.Status{Code: 500, Text: "500 Internal Server Error"},
	}})
	s := c.State()
	assert.Equal(t, "partial", s.Output)
	assert.Equal(t, unknownServerError, s.Error)
	assert.Len(t, s.Hints, 1)

	req, _ = c.Begin(models.OpExecute)
	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{
		Error:  "Error: Code execution timed out (5 seconds).",
		Status: service.Status{Code: 504, Text: "504 Gateway Timeout"},
	}})
	assert.Equal(t, "Error: Code execution timed out (5 seconds).", c.State().Error)
}

func TestExecuteTransportFailure(t *testing.T) {
	c := NewController("x")
	req, _ := c.Begin(models.OpExecute)

	c.Apply(Completed{Request: req, Err: errors.New("connection refused")})

	s := c.State()
	assert.Contains(t, s.Error, "connection refused")
	assert.Empty(t, s.Hints)
	assert.False(t, s.Busy(models.OpExecute))
}

func TestHintTransportFailure(t *testing.T) {
	c := filled()
	req, ok := c.Begin(models.OpHint)
	require.True(t, ok)

	c.Apply(Completed{Request: req, Err: &service.TransportError{Op: "POST /get_ai_hint", Err: errors.New("fetch failed")}})

	s := c.State()
	assert.Contains(t, s.HintText, "fetch failed")
	assert.False(t, s.Busy(models.OpHint))
	// Other slots keep what they had after the start-of-operation clearing
	assert.Equal(t, "old output", s.Output)
	assert.Equal(t, "old error", s.Error)
	assert.Len(t, s.Hints, 1)
	assert.Empty(t, s.ExplanationText)
	assert.Empty(t, s.FixedCodeText)
}

func TestAssistNonSuccessStatus(t *testing.T) {
	c := NewController("x")

	req, _ := c.Begin(models.OpExplain)
	c.Apply(Completed{Request: req, Assist: &service.AssistResponse{
		Status: service.Status{Code: 503, Text: "503 Service Unavailable"},
	}})
	assert.Equal(t, "Failed to get AI explanation: 503 Service Unavailable", c.State().ExplanationText)

	req, _ = c.Begin(models.OpFix)
	c.Apply(Completed{Request: req, Assist: &service.AssistResponse{
		Text:   "Failed to get AI fixed code: quota exceeded",
		Status: service.Status{Code: 429, Text: "429 Too Many Requests"},
	}})
	assert.Equal(t, "Failed to get AI fixed code: quota exceeded", c.State().FixedCodeText)
}

func TestLastResponseWinsWithoutFencing(t *testing.T) {
	c := NewController("x")
	hint, _ := c.Begin(models.OpHint)
	explain, _ := c.Begin(models.OpExplain)

	c.Apply(Completed{Request: explain, Assist: &service.AssistResponse{Text: "explanation", Status: okStatus}})
	c.Apply(Completed{Request: hint, Assist: &service.AssistResponse{Text: "stale hint", Status: okStatus}})

	s := c.State()
	assert.Equal(t, "explanation", s.ExplanationText)
	assert.Equal(t, "stale hint", s.HintText)
}

func TestFencingDiscardsStaleResponses(t *testing.T) {
	c := NewController("x", WithFencing(true))
	hint, _ := c.Begin(models.OpHint)
	explain, _ := c.Begin(models.OpExplain)

	c.Apply(Completed{Request: hint, Assist: &service.AssistResponse{Text: "stale hint", Status: okStatus}})
	s := c.State()
	assert.Empty(t, s.HintText)
	assert.False(t, s.Busy(models.OpHint), "busy flag is released even when fenced")

	c.Apply(Completed{Request: explain, Assist: &service.AssistResponse{Text: "explanation", Status: okStatus}})
	assert.Equal(t, "explanation", c.State().ExplanationText)
}

func TestResetIsIdempotent(t *testing.T) {
	c := filled()

	c.Apply(Reset{})
	first := c.State()
	c.Apply(Reset{})
	second := c.State()

	assert.Equal(t, models.DefaultCode, first.Code)
	assert.False(t, first.HasResults())
	assert.Equal(t, first, second)
}

func TestResetKeepsBusyFlags(t *testing.T) {
	c := NewController("x", WithDefaultCode("pass"))
	req, _ := c.Begin(models.OpExecute)

	c.Apply(Reset{})
	assert.Equal(t, "pass", c.Code())
	assert.True(t, c.State().Busy(models.OpExecute))

	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{Output: "late", Status: okStatus}})
	assert.Equal(t, "late", c.State().Output)
}

func TestEditedAndLoaded(t *testing.T) {
	c := NewController("")
	c.Apply(Edited{Code: "a = 1"})
	assert.Equal(t, "a = 1", c.Code())
	c.Apply(Loaded{Code: "b = 2"})
	assert.Equal(t, "b = 2", c.Code())
}

func TestStateIsACopy(t *testing.T) {
	c := NewController("x")
	req, _ := c.Begin(models.OpExecute)
	c.Apply(Completed{Request: req, Execute: &service.ExecuteResponse{
		Hints: []models.Hint{{Type: "error", Message: "a"}}, Status: okStatus,
	}})

	s := c.State()
	s.Hints[0].Message = "mutated"
	assert.Equal(t, "a", c.State().Hints[0].Message)
}
