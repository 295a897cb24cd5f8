package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	StateDirName     = ".pytutor"
	StoreFileName    = "store.yaml"
	SettingsFileName = "settings.yaml"
	LogFileName      = "pytutor.log"
)

// StateDirEnv overrides the state directory location
const StateDirEnv = "PYTUTOR_HOME"

// DefaultStateDir returns $PYTUTOR_HOME or ~/.pytutor
func DefaultStateDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(StateDirEnv)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, StateDirName), nil
}

// InitStateDir creates the state directory if it does not exist
func InitStateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// StorePath returns the key-value store location inside dir
func StorePath(dir string) string {
	return filepath.Join(dir, StoreFileName)
}

// SettingsPath returns the settings file location inside dir
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFileName)
}

// LogPath returns the TUI log file location inside dir
func LogPath(dir string) string {
	return filepath.Join(dir, LogFileName)
}

// WriteFile writes content to a file
func WriteFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a source file, e.g. for `pytutor run script.py`
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}
