package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/service"
	"github.com/pytutor/pytutor-terminal/pkg/session"
)

// Service runs code and asks the tutor for help. *service.Client
// satisfies it.
type Service interface {
	Execute(ctx context.Context, code string) (*service.ExecuteResponse, error)
	Assist(ctx context.Context, kind models.OperationKind, code, errText string) (*service.AssistResponse, error)
}

// runOperation performs req's remote call off the update loop. Whatever
// happens, the result comes back as a session.Completed message so the
// busy flag is always released.
func runOperation(ctx context.Context, svc Service, req session.Request) tea.Cmd {
	return func() tea.Msg {
		done := session.Completed{Request: req}
		if req.Kind == models.OpExecute {
			done.Execute, done.Err = svc.Execute(ctx, req.Code)
		} else {
			done.Assist, done.Err = svc.Assist(ctx, req.Kind, req.Code, req.ErrorText)
		}
		return done
	}
}

// buttonLabel is the idle or in-flight label of an operation
func buttonLabel(kind models.OperationKind, busy bool) string {
	switch kind {
	case models.OpExecute:
		if busy {
			return "Running..."
		}
		return "Run Code"
	case models.OpHint:
		if busy {
			return "Getting AI Hint..."
		}
		return "Get AI Hint"
	case models.OpExplain:
		if busy {
			return "Explaining..."
		}
		return "Explain Code"
	case models.OpFix:
		if busy {
			return "Fixing..."
		}
		return "Fix Code"
	}
	return kind.String()
}
