package out

import (
	"context"
	"errors"

	"gear/internal/modules/notifier/domain"
	apperrors "gear/internal/platform/errors"
)

var errBackendClosed = errors.New("notifier backend is closed")

// NoopBackend never gets permission, so nothing is ever scheduled.
type NoopBackend struct{}

func NewNoopBackend() NoopBackend { return NoopBackend{} }

func (NoopBackend) Name() string { return "none" }

func (NoopBackend) RequestPermission(context.Context) (bool, error) { return false, nil }

func (NoopBackend) Schedule(context.Context, domain.Notification) error {
	return apperrors.ErrPermissionDenied
}

func (NoopBackend) Cancel(context.Context, string) error { return nil }

func (NoopBackend) Pending(context.Context) ([]domain.Pending, error) {
	return []domain.Pending{}, nil
}

func (NoopBackend) Close() error { return nil }
