package files

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// SettingsEnvPrefix prefixes environment overrides, e.g. PYTUTOR_SERVICE_BASE_URL
const SettingsEnvPrefix = "PYTUTOR"

// ReadSettings loads settings from path, layering defaults, the YAML file
// (optional) and PYTUTOR_* environment variables.
func ReadSettings(path string) (*models.Settings, error) {
	defaults := models.DefaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(SettingsEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service.base_url", defaults.Service.BaseURL)
	v.SetDefault("service.timeout_seconds", defaults.Service.TimeoutSeconds)
	v.SetDefault("editor.language", defaults.Editor.Language)
	v.SetDefault("editor.autosave_delay_ms", defaults.Editor.AutosaveDelayMS)
	v.SetDefault("editor.command", defaults.Editor.Command)
	v.SetDefault("ui.status_duration_ms", defaults.UI.StatusDurationMS)
	v.SetDefault("session.fence_stale_responses", defaults.Session.FenceStaleResponses)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	settings := &models.Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ValidateSettings checks values that would otherwise fail late
func ValidateSettings(s *models.Settings) error {
	parsed, err := url.Parse(strings.TrimSpace(s.Service.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("service.base_url must include scheme and host (e.g. http://127.0.0.1:5000)")
	}
	if s.Service.TimeoutSeconds < 0 {
		return fmt.Errorf("service.timeout_seconds must not be negative")
	}
	if s.Editor.AutosaveDelayMS <= 0 {
		return fmt.Errorf("editor.autosave_delay_ms must be positive")
	}
	if s.UI.StatusDurationMS <= 0 {
		return fmt.Errorf("ui.status_duration_ms must be positive")
	}
	if strings.TrimSpace(s.Editor.Language) == "" {
		s.Editor.Language = models.DefaultLanguage
	}
	return nil
}

// WriteSettings writes settings as YAML to path
func WriteSettings(path string, settings *models.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory for settings: %w", err)
	}
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}
