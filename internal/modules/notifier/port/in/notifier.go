package in

import (
	"context"

	"gear/internal/modules/notifier/dto"
)

type Usecase interface {
	RequestPermission(ctx context.Context) (dto.PermissionOutput, error)
	Schedule(ctx context.Context, input dto.ScheduleInput) error
	Cancel(ctx context.Context, key string) error
	Pending(ctx context.Context) ([]dto.PendingOutput, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	UpdateText(ctx context.Context, input dto.TextInput) error
}
