package out

import (
	"context"

	"gear/internal/modules/notifier/domain"
)

// Backend delivers notifications. Schedule replaces any pending
// notification with the same key.
type Backend interface {
	Name() string
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, notification domain.Notification) error
	Cancel(ctx context.Context, key string) error
	Pending(ctx context.Context) ([]domain.Pending, error)
	Close() error
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
}
