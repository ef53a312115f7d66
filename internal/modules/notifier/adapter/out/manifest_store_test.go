package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	notifierout "gear/internal/modules/notifier/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := notifierout.NewFileManifestStore(filepath.Join(t.TempDir(), "plugins", "notifiers.json"))
	manifests, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, manifests)
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "plugins")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw := `[
  {
    "name": "desktop",
    "version": "1.0.0",
    "binary": "bin/gear-notifier",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true
  }
]`
	path := filepath.Join(dir, "notifiers.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	manifests, err := notifierout.NewFileManifestStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	require.Equal(t, filepath.Join(dir, "bin", "gear-notifier"), manifests[0].Binary)
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notifiers.json")
	raw := `[{"name": "desktop", "version": "1", "binary": "/tmp/p", "sha256": "", "enabled": true, "capabilities": ["command"]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	_, err := notifierout.NewFileManifestStore(path).Load(context.Background())
	require.Error(t, err)
}
