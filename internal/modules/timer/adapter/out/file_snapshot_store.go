package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gear/internal/modules/timer/domain"
	timerout "gear/internal/modules/timer/port/out"
	apperrors "gear/internal/platform/errors"
)

// FileSnapshotStore persists the background snapshot as a small JSON
// key-value document.
type FileSnapshotStore struct {
	path string
}

func NewFileSnapshotStore(path string) timerout.SnapshotStore {
	return &FileSnapshotStore{path: path}
}

func (s *FileSnapshotStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Load(_ context.Context) (domain.Snapshot, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, apperrors.ErrNoSnapshot
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	// All three keys must be present, as with a partially written defaults store.
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	for _, key := range []string{"backgroundEntryTime", "savedTimerDuration", "timerRunning"} {
		if _, ok := raw[key]; !ok {
			return domain.Snapshot{}, apperrors.ErrNoSnapshot
		}
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *FileSnapshotStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
