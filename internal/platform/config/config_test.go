package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gear/internal/platform/config"
)

func TestNewLaysOutDataDir(t *testing.T) {
	t.Parallel()
	cfg, err := config.New("/tmp/gear-data")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/gear-data", "gear.db"), cfg.DBPath)
	require.Equal(t, filepath.Join("/tmp/gear-data", "snapshot.json"), cfg.SnapshotPath)
	require.Equal(t, filepath.Join("/tmp/gear-data", "plugins", "notifiers.json"), cfg.PluginsPath)

	_, err = config.New("")
	require.Error(t, err)
}

func TestLoadSettingsDefaultsAndOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "gear.yaml")

	settings, err := config.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultSettings(), settings)

	raw := "tick_interval: 500ms\nhistory:\n  store: memory\nnotifier:\n  backend: none\n  title: Done\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	settings, err = config.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, settings.TickInterval)
	require.Equal(t, config.HistoryMemory, settings.History.Store)
	require.Equal(t, config.NotifierNone, settings.Notifier.Backend)
	require.Equal(t, "Done", settings.Notifier.Title)
	require.Equal(t, "Your countdown timer has ended.", settings.Notifier.Body)
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "gear.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notifier:\n  backend: plugin\n"), 0o644))

	settings, err := config.LoadSettings(path)
	require.Error(t, err)
	require.Equal(t, config.DefaultSettings(), settings)
}

func TestWriteDefaultsDoesNotOverwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "gear.yaml")
	require.NoError(t, config.WriteDefaults(path))
	settings, err := config.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultSettings(), settings)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	require.NoError(t, config.WriteDefaults(path))
	settings, err = config.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, "debug", settings.Log.Level)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "gear.yaml")
	require.NoError(t, config.WriteDefaults(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan config.Settings, 4)
	require.NoError(t, config.Watch(ctx, path, func(s config.Settings) { changes <- s }, nil))

	require.NoError(t, os.WriteFile(path, []byte("notifier:\n  backend: local\n  title: Gear done\n"), 0o644))
	select {
	case s := <-changes:
		require.Equal(t, "Gear done", s.Notifier.Title)
	case <-time.After(5 * time.Second):
		t.Fatalf("settings change was not observed")
	}
}
