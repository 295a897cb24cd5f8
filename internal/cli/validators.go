package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// ValidateOutputFormat checks a --output value
func ValidateOutputFormat(format string) error {
	switch OutputFormat(strings.ToLower(format)) {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateThemeName checks a theme argument
func ValidateThemeName(name string) (models.Theme, error) {
	switch models.Theme(strings.ToLower(name)) {
	case models.ThemeLight:
		return models.ThemeLight, nil
	case models.ThemeDark:
		return models.ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme: %s (must be: light or dark)", name)
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}
