package out

import (
	"context"
	"time"

	notifierdto "gear/internal/modules/notifier/dto"
	notifierin "gear/internal/modules/notifier/port/in"
	timerout "gear/internal/modules/timer/port/out"
	apperrors "gear/internal/platform/errors"
)

// NotifierAdapter schedules timer alerts through the notifier module.
type NotifierAdapter struct {
	notifier notifierin.Usecase
}

func NewNotifierAdapter(notifier notifierin.Usecase) timerout.Notifier {
	return NotifierAdapter{notifier: notifier}
}

func (a NotifierAdapter) Schedule(ctx context.Context, key string, after time.Duration) error {
	if a.notifier == nil {
		return apperrors.ErrNotifierNotReady
	}
	return a.notifier.Schedule(ctx, notifierdto.ScheduleInput{Key: key, After: after})
}

func (a NotifierAdapter) Cancel(ctx context.Context, key string) error {
	if a.notifier == nil {
		return apperrors.ErrNotifierNotReady
	}
	return a.notifier.Cancel(ctx, key)
}
