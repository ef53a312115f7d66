package usecase

import (
	"context"

	"gear/internal/modules/notifier/dto"
	notifierin "gear/internal/modules/notifier/port/in"
	"gear/internal/modules/notifier/service"
)

type Interactor struct {
	svc *service.NotifierService
}

func NewInteractor(svc *service.NotifierService) notifierin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RequestPermission(ctx context.Context) (dto.PermissionOutput, error) {
	return i.svc.RequestPermission(ctx)
}

func (i *Interactor) Schedule(ctx context.Context, input dto.ScheduleInput) error {
	return i.svc.Schedule(ctx, input)
}

func (i *Interactor) Cancel(ctx context.Context, key string) error {
	return i.svc.Cancel(ctx, key)
}

func (i *Interactor) Pending(ctx context.Context) ([]dto.PendingOutput, error) {
	return i.svc.Pending(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) UpdateText(ctx context.Context, input dto.TextInput) error {
	return i.svc.UpdateText(ctx, input)
}
