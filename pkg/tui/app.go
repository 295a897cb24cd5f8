package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"

	"github.com/pytutor/pytutor-terminal/pkg/autosave"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/render"
	"github.com/pytutor/pytutor-terminal/pkg/session"
	"github.com/pytutor/pytutor-terminal/pkg/theme"
	"github.com/pytutor/pytutor-terminal/pkg/utils"
)

// Store is where the app keeps the source document and the theme.
// *files.Store satisfies it.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Options configures NewApp
type Options struct {
	Settings models.Settings
	Service  Service
	Store    Store
	// Context carries the logger and bounds remote calls
	Context context.Context
}

type focusArea int

const (
	focusEditor focusArea = iota
	focusOutput
)

type App struct {
	ctx      context.Context
	log      pslog.Logger
	settings models.Settings
	svc      Service
	store    Store

	session  *session.Controller
	saver    *autosave.Autosaver
	theme    *theme.Controller
	renderer *render.Renderer
	copies   *render.CopyTracker
	status   *StatusManager
	styles   Styles

	editor  textarea.Model
	output  viewport.Model
	spinner spinner.Model
	help    help.Model
	keys    KeyMap
	focus   focusArea
	pane    outputPane

	width  int
	height int
}

// NewApp restores the saved source and theme from the store and builds
// the UI around them
func NewApp(opts Options) *App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := pslog.Ctx(ctx)
	settings := opts.Settings
	if settings.Editor.Language == "" {
		settings.Editor.Language = models.DefaultLanguage
	}

	code := models.DefaultCode
	saved, ok, err := opts.Store.Get(models.KeySourceCode)
	switch {
	case err != nil:
		log.Warn("failed to read saved code", "err", err)
	case ok:
		code = saved
	}

	th, err := theme.Load(opts.Store)
	if err != nil {
		log.Warn("failed to read theme", "err", err)
	}

	delay := time.Duration(settings.Editor.AutosaveDelayMS) * time.Millisecond
	status := time.Duration(settings.UI.StatusDurationMS) * time.Millisecond

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = "  "
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(code)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	a := &App{
		ctx:      ctx,
		log:      log,
		settings: settings,
		svc:      opts.Service,
		store:    opts.Store,
		session:  session.NewController(code, session.WithFencing(settings.Session.FenceStaleResponses)),
		saver:    autosave.New(opts.Store, models.KeySourceCode, delay),
		theme:    th,
		copies:   render.NewCopyTracker(),
		status:   NewStatusManager(status),
		editor:   ta,
		output:   viewport.New(80, 20),
		spinner:  sp,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		focus:    focusEditor,
	}
	a.applyTheme()
	return a
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case session.Completed:
		a.session.Apply(msg)
		a.log.Info("operation finished",
			"op", msg.Request.Kind.String(), "seq", msg.Request.Seq, "err", msg.Err)
		a.copies.Reset()
		a.refreshOutput()
		return a, nil

	case autosave.FireMsg:
		saved, err := a.saver.Handle(msg, a.session.Code())
		if err != nil {
			a.log.Warn("autosave failed", "err", err)
			return a, a.status.ShowError(fmt.Sprintf("Autosave failed: %v", err))
		}
		if saved {
			return a, a.status.ShowSuccess(StatusAutoSaved)
		}
		return a, nil

	case render.CopyExpiredMsg:
		a.copies.Expire(msg)
		a.refreshOutput()
		return a, nil

	case spinner.TickMsg:
		if !a.session.State().AnyBusy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ClearStatusMsg:
		// Redraw only; GetStatus drops expired messages
		return a, nil
	}

	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.layout()
		return nil
	case key.Matches(msg, a.keys.Run):
		return a.start(models.OpExecute)
	case key.Matches(msg, a.keys.Hint):
		return a.start(models.OpHint)
	case key.Matches(msg, a.keys.Explain):
		return a.start(models.OpExplain)
	case key.Matches(msg, a.keys.Fix):
		return a.start(models.OpFix)
	case key.Matches(msg, a.keys.Save):
		return a.save()
	case key.Matches(msg, a.keys.Load):
		return a.load()
	case key.Matches(msg, a.keys.Reset):
		return a.reset()
	case key.Matches(msg, a.keys.Theme):
		return a.toggleTheme()
	case key.Matches(msg, a.keys.Focus):
		a.switchFocus()
		return nil
	}

	if a.focus == focusOutput {
		if key.Matches(msg, a.keys.Copy) {
			n, _ := strconv.Atoi(msg.String())
			return a.copyBlock(n)
		}
		var cmd tea.Cmd
		a.output, cmd = a.output.Update(msg)
		return cmd
	}

	before := a.editor.Value()
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	if text := a.editor.Value(); text != before {
		a.session.Apply(session.Edited{Code: text})
		return tea.Batch(cmd, a.saver.Touch())
	}
	return cmd
}

// start begins an operation if the controller allows it and hands the
// remote call to bubbletea
func (a *App) start(kind models.OperationKind) tea.Cmd {
	req, ok := a.session.Begin(kind)
	if !ok {
		a.log.Debug("operation not started", "op", kind.String())
		return nil
	}
	a.log.Info("operation started", "op", kind.String(), "seq", req.Seq)
	a.copies.Reset()
	a.refreshOutput()
	return tea.Batch(a.spinner.Tick, runOperation(a.ctx, a.svc, req))
}

func (a *App) save() tea.Cmd {
	if err := a.saver.SaveNow(a.session.Code()); err != nil {
		a.log.Warn("manual save failed", "err", err)
		return a.status.ShowError(fmt.Sprintf("Save failed: %v", err))
	}
	return a.status.ShowSuccess(StatusSaved)
}

func (a *App) load() tea.Cmd {
	saved, ok, err := a.store.Get(models.KeySourceCode)
	if err != nil {
		a.log.Warn("manual load failed", "err", err)
		return a.status.ShowError(fmt.Sprintf("Load failed: %v", err))
	}
	if !ok {
		return a.status.ShowWarning(StatusNoSaved)
	}
	changed := a.setCode(saved, session.Loaded{Code: saved})
	return a.afterCodeChange(changed, a.status.ShowSuccess(StatusLoaded))
}

func (a *App) reset() tea.Cmd {
	changed := a.setCode(a.session.DefaultCode(), session.Reset{})
	a.copies.Reset()
	a.refreshOutput()
	return a.afterCodeChange(changed, a.status.ShowSuccess(StatusCodeReset))
}

// setCode applies ev and mirrors the document into the editor. It
// reports whether the text changed.
func (a *App) setCode(text string, ev session.Event) bool {
	before := a.session.Code()
	a.session.Apply(ev)
	a.editor.SetValue(a.session.Code())
	return before != text
}

// afterCodeChange re-arms autosave when the document changed
func (a *App) afterCodeChange(changed bool, statusCmd tea.Cmd) tea.Cmd {
	if !changed {
		return statusCmd
	}
	return tea.Batch(statusCmd, a.saver.Touch())
}

func (a *App) toggleTheme() tea.Cmd {
	t, err := a.theme.Toggle()
	a.applyTheme()
	if err != nil {
		a.log.Warn("failed to persist theme", "err", err)
		return a.status.ShowError(err.Error())
	}
	return a.status.ShowInfo(fmt.Sprintf("Theme: %s", t))
}

func (a *App) switchFocus() {
	if a.focus == focusEditor {
		a.focus = focusOutput
		a.editor.Blur()
	} else {
		a.focus = focusEditor
		a.editor.Focus()
	}
}

func (a *App) copyBlock(n int) tea.Cmd {
	if n < 1 || n > len(a.pane.blocks) {
		return a.status.ShowWarning(fmt.Sprintf("No code block %d", n))
	}
	cmd, err := a.copies.Copy(n-1, a.pane.blocks[n-1].Text)
	if err != nil {
		a.log.Warn("copy failed", "block", n, "err", err)
		return a.status.ShowError(err.Error())
	}
	a.refreshOutput()
	return cmd
}

// applyTheme rebuilds everything whose look depends on the theme
func (a *App) applyTheme() {
	a.styles = NewStyles(a.theme.Current())
	a.rebuildRenderer()
	a.refreshOutput()
}

func (a *App) rebuildRenderer() {
	width := a.output.Width
	r, err := render.NewRenderer(a.theme.Current(), width)
	if err != nil {
		a.log.Warn("falling back to plain rendering", "err", err)
		r, _ = render.NewRenderer(a.theme.Current(), width, render.WithPlain())
	}
	a.renderer = r
}

func (a *App) refreshOutput() {
	if a.renderer == nil {
		return
	}
	a.pane = buildOutput(a.session.State(), a.renderer, a.styles, a.copies, a.settings.Editor.Language)
	a.output.SetContent(a.pane.content)
}

// layout sizes the editor and output boxes to the window
func (a *App) layout() {
	if a.width == 0 || a.height == 0 {
		return
	}
	a.help.Width = a.width

	// header, buttons, status and help lines plus two bordered boxes
	chrome := 3 + lipgloss.Height(a.help.View(a.keys)) + 4
	room := a.height - chrome
	if room < 6 {
		room = 6
	}
	editorHeight := room / 2
	outputHeight := room - editorHeight

	inner := a.width - 2
	if inner < 10 {
		inner = 10
	}
	a.editor.SetWidth(inner)
	a.editor.SetHeight(editorHeight)
	a.output.Width = inner
	a.output.Height = outputHeight

	a.rebuildRenderer()
	a.refreshOutput()
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	info := fmt.Sprintf("%s  %s theme  %s", utils.StatsFor(a.session.Code()), a.theme.Current(), a.settings.Service.BaseURL)
	header := renderHeader(a.width, a.styles, "pytutor", info)

	editorBox, outputBox := a.styles.ActiveBorder, a.styles.InactiveBorder
	if a.focus == focusOutput {
		editorBox, outputBox = outputBox, editorBox
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		editorBox.Render(a.editor.View()),
		a.buttonsView(),
		outputBox.Render(a.output.View()),
		a.statusView(),
		a.help.View(a.keys),
	)
}

func (a *App) buttonsView() string {
	st := a.session.State()
	bindings := map[models.OperationKind]key.Binding{
		models.OpExecute: a.keys.Run,
		models.OpHint:    a.keys.Hint,
		models.OpExplain: a.keys.Explain,
		models.OpFix:     a.keys.Fix,
	}

	parts := make([]string, 0, len(models.AllOperations))
	for _, kind := range models.AllOperations {
		busy := st.Busy(kind)
		label := fmt.Sprintf("[%s] %s", bindings[kind].Help().Key, buttonLabel(kind, busy))
		switch {
		case busy:
			parts = append(parts, a.styles.ButtonBusy.Render(a.spinner.View()+label))
		case !a.session.CanStart(kind):
			parts = append(parts, a.styles.ButtonDisabled.Render(label))
		default:
			parts = append(parts, a.styles.Button.Render(label))
		}
	}
	return " " + strings.Join(parts, "  ")
}

func (a *App) statusView() string {
	msg, ok := a.status.GetStatus()
	if !ok {
		return ""
	}
	return a.styles.Status(a.status.CurrentStatus.Type).Render(msg)
}

// Run starts the full-screen program and blocks until the user quits
// or ctx is cancelled
func Run(ctx context.Context, app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}
