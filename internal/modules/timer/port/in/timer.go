package in

import (
	"context"

	"gear/internal/modules/timer/dto"
)

type Usecase interface {
	Tap(ctx context.Context) (dto.EventOutput, error)
	DoubleTap(ctx context.Context) (dto.EventOutput, error)
	Tick(ctx context.Context) (dto.EventOutput, error)
	Rotate(ctx context.Context, input dto.RotateInput) (dto.EventOutput, error)
	DragBegin(ctx context.Context, input dto.DragBeginInput) (dto.EventOutput, error)
	DragMove(ctx context.Context, input dto.DragInput) (dto.EventOutput, error)
	DragEnd(ctx context.Context) (dto.EventOutput, error)
	EnterBackground(ctx context.Context) error
	EnterForeground(ctx context.Context) (dto.EventOutput, error)
	State(ctx context.Context) (dto.StateOutput, error)
	History(ctx context.Context) ([]dto.HistoryEntryOutput, error)
	ExportHistory(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
