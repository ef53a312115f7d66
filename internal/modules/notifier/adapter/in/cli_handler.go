package in

import (
	"context"
	"time"

	"gear/internal/modules/notifier/dto"
	notifierin "gear/internal/modules/notifier/port/in"
)

const testKey = "gearTest"

type CLIHandler struct {
	usecase notifierin.Usecase
}

func NewCLIHandler(usecase notifierin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Permission(ctx context.Context) (dto.PermissionOutput, error) {
	return h.usecase.RequestPermission(ctx)
}

// Test schedules a throwaway notification with the configured text.
func (h CLIHandler) Test(ctx context.Context, after time.Duration) error {
	return h.usecase.Schedule(ctx, dto.ScheduleInput{Key: testKey, After: after})
}

func (h CLIHandler) Pending(ctx context.Context) ([]dto.PendingOutput, error) {
	return h.usecase.Pending(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
