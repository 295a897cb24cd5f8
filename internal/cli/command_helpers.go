package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"pkt.systems/pslog"

	"github.com/pytutor/pytutor-terminal/pkg/files"
	"github.com/pytutor/pytutor-terminal/pkg/models"
	"github.com/pytutor/pytutor-terminal/pkg/service"
)

// CommandContext holds what commands share: the state directory, the
// loaded settings and the store
type CommandContext struct {
	StateDir string
	Settings *models.Settings
	store    *files.Store
}

// NewCommandContext resolves the state directory (creating it if needed)
// and loads settings from it. stateDir may be empty to use the default.
func NewCommandContext(stateDir string) (*CommandContext, error) {
	if stateDir == "" {
		dir, err := files.DefaultStateDir()
		if err != nil {
			return nil, err
		}
		stateDir = dir
	}
	if err := files.InitStateDir(stateDir); err != nil {
		return nil, err
	}
	return &CommandContext{StateDir: stateDir}, nil
}

// LoadSettings reads and validates settings once
func (c *CommandContext) LoadSettings() (*models.Settings, error) {
	if c.Settings != nil {
		return c.Settings, nil
	}

	settings, err := files.ReadSettings(files.SettingsPath(c.StateDir))
	if err != nil {
		return nil, err
	}
	if err := files.ValidateSettings(settings); err != nil {
		return nil, err
	}

	c.Settings = settings
	return settings, nil
}

// LoadSettingsWithDefault loads settings or returns defaults if they
// cannot be read
func (c *CommandContext) LoadSettingsWithDefault(ctx context.Context) *models.Settings {
	settings, err := c.LoadSettings()
	if err != nil {
		pslog.Ctx(ctx).Warn("using default settings", "err", err)
		settings = models.DefaultSettings()
		c.Settings = settings
	}
	return settings
}

// Store returns the key-value store in the state directory
func (c *CommandContext) Store(ctx context.Context) *files.Store {
	if c.store == nil {
		c.store = files.NewStoreWithLogger(files.StorePath(c.StateDir), pslog.Ctx(ctx))
	}
	return c.store
}

// Client builds a service client from the settings
func (c *CommandContext) Client(ctx context.Context) *service.Client {
	settings := c.LoadSettingsWithDefault(ctx)
	opts := []service.Option{service.WithLogger(pslog.Ctx(ctx))}
	if settings.Service.TimeoutSeconds > 0 {
		opts = append(opts, service.WithTimeout(time.Duration(settings.Service.TimeoutSeconds)*time.Second))
	}
	return service.NewClient(settings.Service.BaseURL, opts...)
}

// SourceCode returns the saved source, or the default sample when
// nothing has been saved
func (c *CommandContext) SourceCode(ctx context.Context) (code string, saved bool, err error) {
	code, saved, err = c.Store(ctx).Get(models.KeySourceCode)
	if err != nil {
		return "", false, err
	}
	if !saved {
		return models.DefaultCode, false, nil
	}
	return code, true, nil
}

// EditorLauncher handles all editor-related operations
type EditorLauncher struct {
	DefaultEditor string
}

// NewEditorLauncher creates a launcher for command, falling back to
// $EDITOR and then vi
func NewEditorLauncher(command string) *EditorLauncher {
	editor := command
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	return &EditorLauncher{
		DefaultEditor: editor,
	}
}

// OpenFile opens a file in the configured editor
func (e *EditorLauncher) OpenFile(filepath string) error {
	parts := strings.Fields(e.DefaultEditor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorCmd := exec.Command(parts[0], append(parts[1:], filepath)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	return nil
}

// EditContent writes content to a temp file, opens it in the editor and
// returns what was saved. The temp file is removed afterwards.
func (e *EditorLauncher) EditContent(pattern, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmpFile.Name()
	defer os.Remove(path)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := e.OpenFile(path); err != nil {
		return "", err
	}

	return files.ReadFile(path)
}
