package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the on-disk layout of a gear data directory.
type Config struct {
	DataDir      string
	DBPath       string
	SnapshotPath string
	SettingsPath string
	PluginsPath  string
	LogPath      string
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "gear.db"),
		SnapshotPath: filepath.Join(dataDir, "snapshot.json"),
		SettingsPath: filepath.Join(dataDir, "gear.yaml"),
		PluginsPath:  filepath.Join(dataDir, "plugins", "notifiers.json"),
		LogPath:      filepath.Join(dataDir, "gear.log"),
	}, nil
}

// DefaultDataDir follows XDG_STATE_HOME, falling back to ~/.local/state/gear.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gear")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gear"
	}
	return filepath.Join(home, ".local", "state", "gear")
}
