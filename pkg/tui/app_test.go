package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/render"
	"github.com/pytutor/pytutor-terminal/pkg/service"
	"github.com/pytutor/pytutor-terminal/pkg/session"
)

type memStore struct {
	values  map[string]string
	writes  map[string]int
	failSet error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}, writes: map[string]int{}}
}

func (m *memStore) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.values[key] = value
	m.writes[key]++
	return nil
}

type fakeService struct {
	mu      sync.Mutex
	execute *service.ExecuteResponse
	assist  map[models.OperationKind]*service.AssistResponse
	err     error
	calls   []models.OperationKind
}

func (f *fakeService) Execute(ctx context.Context, code string) (*service.ExecuteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, models.OpExecute)
	if f.err != nil {
		return nil, f.err
	}
	return f.execute, nil
}

func (f *fakeService) Assist(ctx context.Context, kind models.OperationKind, code, errText string) (*service.AssistResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	if f.err != nil {
		return nil, f.err
	}
	return f.assist[kind], nil
}

var ok200 = service.Status{Code: 200, Text: "200 OK"}

func newTestApp(t *testing.T, store *memStore, svc *fakeService) *App {
	t.Helper()
	settings := *models.DefaultSettings()
	settings.Editor.AutosaveDelayMS = 1

	app := NewApp(Options{Settings: settings, Service: svc, Store: store})
	app.editor.Cursor.SetMode(cursor.CursorStatic)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return app
}

// collect runs cmd and returns the messages that arrive quickly; long
// timers such as status expiry are skipped
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func press(app *App, k tea.KeyType) tea.Cmd {
	_, cmd := app.Update(tea.KeyMsg{Type: k})
	return cmd
}

func typeText(app *App, s string) tea.Cmd {
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

// complete delivers the session.Completed message produced by cmd
func complete(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		if done, ok := msg.(session.Completed); ok {
			app.Update(done)
			return
		}
	}
	t.Fatal("no completion message")
}

func TestNewAppRestoresSavedCodeAndTheme(t *testing.T) {
	store := newMemStore()
	store.values[models.KeySourceCode] = "x = 1"
	store.values[models.KeyTheme] = "dark"

	app := newTestApp(t, store, &fakeService{})

	assert.Equal(t, "x = 1", app.session.Code())
	assert.Equal(t, "x = 1", app.editor.Value())
	assert.Equal(t, models.ThemeDark, app.theme.Current())
}

func TestNewAppDefaults(t *testing.T) {
	app := newTestApp(t, newMemStore(), &fakeService{})

	assert.Equal(t, models.DefaultCode, app.session.Code())
	assert.Equal(t, models.ThemeLight, app.theme.Current())
	assert.Contains(t, app.View(), "Run Code")
	assert.Contains(t, app.View(), "2 lines")
}

func TestViewBeforeWindowSize(t *testing.T) {
	app := NewApp(Options{Settings: *models.DefaultSettings(), Service: &fakeService{}, Store: newMemStore()})
	assert.Equal(t, "Loading...", app.View())
}

func TestTypingAutosavesOnce(t *testing.T) {
	store := newMemStore()
	app := newTestApp(t, store, &fakeService{})

	var msgs []tea.Msg
	for _, r := range []string{"a", "b", "c"} {
		msgs = append(msgs, collect(typeText(app, r))...)
	}
	assert.Equal(t, models.DefaultCode+"abc", app.session.Code())

	for _, msg := range msgs {
		app.Update(msg)
	}
	assert.Equal(t, 1, store.writes[models.KeySourceCode])
	assert.Equal(t, models.DefaultCode+"abc", store.values[models.KeySourceCode])
	assert.Equal(t, StatusAutoSaved, app.status.Message())
}

func TestAutosaveFailureShowsError(t *testing.T) {
	store := newMemStore()
	store.failSet = errors.New("disk full")
	app := newTestApp(t, store, &fakeService{})

	for _, msg := range collect(typeText(app, "a")) {
		app.Update(msg)
	}
	require.NotNil(t, app.status.CurrentStatus)
	assert.Equal(t, StatusTypeError, app.status.CurrentStatus.Type)
	assert.Contains(t, app.status.Message(), "disk full")
}

func TestRunCode(t *testing.T) {
	svc := &fakeService{execute: &service.ExecuteResponse{Output: "1\n", Status: ok200}}
	app := newTestApp(t, newMemStore(), svc)

	cmd := press(app, tea.KeyF5)
	assert.True(t, app.session.State().Busy(models.OpExecute))
	assert.Contains(t, app.View(), "Running...")

	complete(t, app, cmd)
	st := app.session.State()
	assert.False(t, st.Busy(models.OpExecute))
	assert.Equal(t, "1\n", st.Output)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Hints)
	assert.Contains(t, app.pane.content, "1")
	assert.NotContains(t, app.pane.content, "Errors (Python Traceback):")
}

func TestRunCodeWithHints(t *testing.T) {
	line := 3
	svc := &fakeService{execute: &service.ExecuteResponse{
		Error:  "NameError: x",
		Hints:  []models.Hint{{Type: "error", Message: "x is not defined", Line: &line}},
		Status: ok200,
	}}
	app := newTestApp(t, newMemStore(), svc)

	complete(t, app, press(app, tea.KeyF5))
	assert.Contains(t, app.pane.content, "NameError: x")
	assert.Contains(t, app.pane.content, "Error: x is not defined (Line: 3)")
	assert.Contains(t, app.pane.content, "Intelligent Tutor Suggestions:")
}

func TestAssistBlockedWhileExecuting(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, newMemStore(), svc)

	press(app, tea.KeyF5)
	cmd := press(app, tea.KeyF6)

	assert.Nil(t, cmd)
	assert.False(t, app.session.State().Busy(models.OpHint))
	assert.Empty(t, svc.calls, "no remote call was made")
}

func TestHintTransportFailure(t *testing.T) {
	svc := &fakeService{execute: &service.ExecuteResponse{Output: "1\n", Status: ok200}}
	app := newTestApp(t, newMemStore(), svc)
	complete(t, app, press(app, tea.KeyF5))

	svc.err = errors.New("fetch failed")
	complete(t, app, press(app, tea.KeyF6))

	st := app.session.State()
	assert.Contains(t, st.HintText, "fetch failed")
	assert.False(t, st.Busy(models.OpHint))
	assert.Equal(t, "1\n", st.Output)
	assert.Empty(t, st.ExplanationText)
	assert.Empty(t, st.FixedCodeText)
}

func TestStartingAssistClearsOtherSlots(t *testing.T) {
	svc := &fakeService{assist: map[models.OperationKind]*service.AssistResponse{
		models.OpExplain: {Text: "It prints.", Status: ok200},
	}}
	app := newTestApp(t, newMemStore(), svc)

	complete(t, app, press(app, tea.KeyF7))
	require.Equal(t, "It prints.", app.session.State().ExplanationText)

	press(app, tea.KeyF6)
	st := app.session.State()
	assert.True(t, st.Busy(models.OpHint))
	assert.Empty(t, st.ExplanationText)
	assert.Empty(t, st.HintText)
}

func TestManualSaveLoadAndReset(t *testing.T) {
	store := newMemStore()
	app := newTestApp(t, store, &fakeService{})

	typeText(app, "z")
	press(app, tea.KeyCtrlS)
	assert.Equal(t, models.DefaultCode+"z", store.values[models.KeySourceCode])
	assert.Equal(t, StatusSaved, app.status.Message())

	press(app, tea.KeyF9)
	assert.Equal(t, models.DefaultCode, app.session.Code())
	assert.Equal(t, models.DefaultCode, app.editor.Value())
	assert.Equal(t, StatusCodeReset, app.status.Message())
	assert.Equal(t, models.DefaultCode+"z", store.values[models.KeySourceCode], "reset keeps the saved copy")

	press(app, tea.KeyCtrlO)
	assert.Equal(t, models.DefaultCode+"z", app.session.Code())
	assert.Equal(t, models.DefaultCode+"z", app.editor.Value())
	assert.Equal(t, StatusLoaded, app.status.Message())
}

func TestResetTwice(t *testing.T) {
	svc := &fakeService{execute: &service.ExecuteResponse{Output: "1\n", Status: ok200}}
	app := newTestApp(t, newMemStore(), svc)
	complete(t, app, press(app, tea.KeyF5))
	typeText(app, "q")

	for i := 0; i < 2; i++ {
		press(app, tea.KeyF9)
		st := app.session.State()
		assert.Equal(t, models.DefaultCode, st.Code)
		assert.False(t, st.HasResults())
	}
}

func TestLoadWithoutSavedCode(t *testing.T) {
	app := newTestApp(t, newMemStore(), &fakeService{})

	press(app, tea.KeyCtrlO)
	assert.Equal(t, models.DefaultCode, app.session.Code())
	assert.Equal(t, StatusNoSaved, app.status.Message())
}

func TestManualSaveFailure(t *testing.T) {
	store := newMemStore()
	store.failSet = errors.New("read-only")
	app := newTestApp(t, store, &fakeService{})

	press(app, tea.KeyCtrlS)
	assert.Equal(t, StatusTypeError, app.status.CurrentStatus.Type)
	assert.Contains(t, app.status.Message(), "read-only")
}

func TestThemeToggleIsPersisted(t *testing.T) {
	store := newMemStore()
	app := newTestApp(t, store, &fakeService{})

	press(app, tea.KeyF2)
	assert.Equal(t, models.ThemeDark, app.theme.Current())
	assert.Equal(t, "dark", store.values[models.KeyTheme])
	assert.Equal(t, models.ThemeDark, app.renderer.Theme())

	press(app, tea.KeyF2)
	assert.Equal(t, "light", store.values[models.KeyTheme])
}

func TestCopyCodeBlockFromOutput(t *testing.T) {
	svc := &fakeService{assist: map[models.OperationKind]*service.AssistResponse{
		models.OpFix: {Text: "Try:\n\n```python\nx = 1\n```\n\nand `y`.", Status: ok200},
	}}
	app := newTestApp(t, newMemStore(), svc)
	var clipboard []string
	app.copies.Clipboard = func(s string) error {
		clipboard = append(clipboard, s)
		return nil
	}

	complete(t, app, press(app, tea.KeyF8))
	require.Len(t, app.pane.blocks, 1)
	assert.Contains(t, app.pane.content, "python  [1] "+render.LabelCopy)

	// Digits go to the editor until the output pane has focus
	press(app, tea.KeyTab)
	cmd := typeText(app, "1")
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"x = 1"}, clipboard)
	assert.Contains(t, app.pane.content, "python  [1] "+render.LabelCopied)

	app.Update(render.CopyExpiredMsg{Number: 5})
	assert.Contains(t, app.pane.content, render.LabelCopied, "other blocks' timers do not revert it")

	typeText(app, "2")
	assert.Equal(t, StatusTypeWarning, app.status.CurrentStatus.Type)
	assert.Equal(t, "No code block 2", app.status.Message())
}

func TestEditorIgnoresKeysWhileOutputFocused(t *testing.T) {
	app := newTestApp(t, newMemStore(), &fakeService{})

	press(app, tea.KeyTab)
	typeText(app, "x")
	assert.Equal(t, models.DefaultCode, app.session.Code())

	press(app, tea.KeyTab)
	typeText(app, "x")
	assert.Equal(t, models.DefaultCode+"x", app.session.Code())
}

func TestQuit(t *testing.T) {
	app := newTestApp(t, newMemStore(), &fakeService{})

	cmd := press(app, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
