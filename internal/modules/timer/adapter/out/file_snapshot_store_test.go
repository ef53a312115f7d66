package out_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	timeradapter "gear/internal/modules/timer/adapter/out"
	"gear/internal/modules/timer/domain"
	apperrors "gear/internal/platform/errors"
)

func TestFileSnapshotStoreSaveLoadClear(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state", "snapshot.json")
	store := timeradapter.NewFileSnapshotStore(path)
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoSnapshot)

	saved := domain.Snapshot{EnteredAt: t0, Seconds: 100, Running: true}
	require.NoError(t, store.Save(ctx, saved))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	keys := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &keys))
	require.Contains(t, keys, "backgroundEntryTime")
	require.Contains(t, keys, "savedTimerDuration")
	require.Contains(t, keys, "timerRunning")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, loaded.EnteredAt.Equal(t0))
	require.Equal(t, 100.0, loaded.Seconds)
	require.True(t, loaded.Running)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoSnapshot)
}

func TestFileSnapshotStoreKeepsSessionFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := timeradapter.NewFileSnapshotStore(path)
	ctx := context.Background()

	start := t0.Add(-time.Minute)
	saved := domain.Snapshot{EnteredAt: t0, Seconds: 240, Running: true, StartTime: &start, Started: true, Countdown: true}
	require.NoError(t, store.Save(ctx, saved))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	keys := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &keys))
	require.Contains(t, keys, "timerStartTime")
	require.Contains(t, keys, "countDown")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, loaded.Started)
	require.True(t, loaded.Countdown)
	require.NotNil(t, loaded.StartTime)
	require.True(t, loaded.StartTime.Equal(start))
}

func TestFileSnapshotStoreReadsThreeKeyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backgroundEntryTime":"2026-02-25T10:00:00Z","savedTimerDuration":30,"timerRunning":false}`), 0o644))
	loaded, err := timeradapter.NewFileSnapshotStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30.0, loaded.Seconds)
	require.False(t, loaded.Started)
	require.Nil(t, loaded.StartTime)
}

func TestFileSnapshotStoreMissingKeyMeansNoSnapshot(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backgroundEntryTime":"2026-02-25T10:00:00Z","timerRunning":true}`), 0o644))
	_, err := timeradapter.NewFileSnapshotStore(path).Load(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoSnapshot)
}

func TestFileSnapshotStoreCorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, err := timeradapter.NewFileSnapshotStore(path).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrNoSnapshot)
}
