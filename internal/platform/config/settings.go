package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	HistorySQLite = "sqlite"
	HistoryMemory = "memory"

	NotifierLocal  = "local"
	NotifierPlugin = "plugin"
	NotifierNone   = "none"
)

type Settings struct {
	TickInterval time.Duration    `yaml:"tick_interval"`
	History      HistorySettings  `yaml:"history"`
	Notifier     NotifierSettings `yaml:"notifier"`
	Log          LogSettings      `yaml:"log"`
}

type HistorySettings struct {
	Store string `yaml:"store"`
}

type NotifierSettings struct {
	Backend string `yaml:"backend"`
	Plugin  string `yaml:"plugin,omitempty"`
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Bell    bool   `yaml:"bell"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

func DefaultSettings() Settings {
	return Settings{
		TickInterval: time.Second,
		History:      HistorySettings{Store: HistorySQLite},
		Notifier: NotifierSettings{
			Backend: NotifierLocal,
			Title:   "Timer Finished",
			Body:    "Your countdown timer has ended.",
			Bell:    true,
		},
		Log: LogSettings{Level: "info"},
	}
}

// LoadSettings reads path over the defaults. A missing file yields the
// defaults; a broken one yields the defaults together with the error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

func (s Settings) Validate() error {
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	switch s.History.Store {
	case HistorySQLite, HistoryMemory:
	default:
		return fmt.Errorf("unknown history store: %s", s.History.Store)
	}
	switch s.Notifier.Backend {
	case NotifierLocal, NotifierNone:
	case NotifierPlugin:
		if s.Notifier.Plugin == "" {
			return fmt.Errorf("notifier.plugin is required for the plugin backend")
		}
	default:
		return fmt.Errorf("unknown notifier backend: %s", s.Notifier.Backend)
	}
	return nil
}

// WriteDefaults creates path with the default settings unless it exists.
func WriteDefaults(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	raw, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
