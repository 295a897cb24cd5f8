package models

// Settings represents the application configuration
type Settings struct {
	Service ServiceSettings `mapstructure:"service" yaml:"service" json:"service"`
	Editor  EditorSettings  `mapstructure:"editor" yaml:"editor" json:"editor"`
	UI      UISettings      `mapstructure:"ui" yaml:"ui" json:"ui"`
	Session SessionSettings `mapstructure:"session" yaml:"session" json:"session"`
}

// ServiceSettings points the client at the execution/AI service
type ServiceSettings struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"` // 0 means transport default
}

// EditorSettings controls editor behavior
type EditorSettings struct {
	Language        string `mapstructure:"language" yaml:"language" json:"language"`
	AutosaveDelayMS int    `mapstructure:"autosave_delay_ms" yaml:"autosave_delay_ms" json:"autosave_delay_ms"`
	Command         string `mapstructure:"command" yaml:"command" json:"command"`
}

// UISettings controls UI preferences
type UISettings struct {
	StatusDurationMS int `mapstructure:"status_duration_ms" yaml:"status_duration_ms" json:"status_duration_ms"`
}

// SessionSettings controls the async operation controller
type SessionSettings struct {
	FenceStaleResponses bool `mapstructure:"fence_stale_responses" yaml:"fence_stale_responses" json:"fence_stale_responses"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Service: ServiceSettings{
			BaseURL:        "http://127.0.0.1:5000",
			TimeoutSeconds: 0,
		},
		Editor: EditorSettings{
			Language:        DefaultLanguage,
			AutosaveDelayMS: 500,
			Command:         "",
		},
		UI: UISettings{
			StatusDurationMS: 2000,
		},
		Session: SessionSettings{
			FenceStaleResponses: false,
		},
	}
}
