package out

import (
	"context"
	"time"

	"gear/internal/modules/timer/domain"
)

type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}

// SnapshotStore keeps the three raw fields saved on the way to the background.
// Load returns apperrors.ErrNoSnapshot when nothing is stored.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Load(ctx context.Context) (domain.Snapshot, error)
	Clear(ctx context.Context) error
}

// Notifier schedules a one-shot alert after a delay, identified by key.
// Scheduling an existing key replaces it.
type Notifier interface {
	Schedule(ctx context.Context, key string, after time.Duration) error
	Cancel(ctx context.Context, key string) error
}

type HistoryExporter interface {
	Export(ctx context.Context, dir string, entries []domain.HistoryEntry) (written int, indexPath string, err error)
}
