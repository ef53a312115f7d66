package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	timeradapter "gear/internal/modules/timer/adapter/out"
	"gear/internal/modules/timer/domain"
)

var t0 = time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

func entry(id string, startOffset, endOffset int) domain.HistoryEntry {
	start := t0.Add(time.Duration(startOffset) * time.Second)
	return domain.HistoryEntry{ID: id, StartTime: &start, EndTime: t0.Add(time.Duration(endOffset) * time.Second)}
}

func TestSQLiteHistoryStoreRoundTripKeepsOrder(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "state", "gear.db")
	store, err := timeradapter.NewSQLiteHistoryStore(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entry("b", 100, 160)))
	require.NoError(t, store.Append(ctx, entry("a", 0, 30)))
	require.NoError(t, store.Append(ctx, domain.HistoryEntry{ID: "no-start", EndTime: t0}))
	require.NoError(t, store.Close())

	reopened, err := timeradapter.NewSQLiteHistoryStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"b", "a", "no-start"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	require.True(t, entries[0].StartTime.Equal(t0.Add(100*time.Second)))
	require.True(t, entries[0].EndTime.Equal(t0.Add(160*time.Second)))
	require.Equal(t, 60*time.Second, entries[0].Duration())
	require.Nil(t, entries[2].StartTime)
}

func TestSQLiteHistoryStoreRejectsDuplicateID(t *testing.T) {
	t.Parallel()
	store, err := timeradapter.NewSQLiteHistoryStore(filepath.Join(t.TempDir(), "gear.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entry("same", 0, 1)))
	require.Error(t, store.Append(ctx, entry("same", 2, 3)))
}

func TestMemoryHistoryStoreCopiesOnList(t *testing.T) {
	t.Parallel()
	store := timeradapter.NewMemoryHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entry("a", 0, 10)))
	listed, err := store.List(ctx)
	require.NoError(t, err)
	listed[0].ID = "mutated"
	again, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", again[0].ID)
}
