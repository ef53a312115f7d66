package in

import (
	"context"

	timerdto "gear/internal/modules/timer/dto"
	timerin "gear/internal/modules/timer/port/in"
)

// One full turn of the dial winds thirty minutes.
const degreesPerMinute = 360.0 / 30.0

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Tap(ctx context.Context) (timerdto.EventOutput, error) {
	return h.usecase.Tap(ctx)
}

func (h CLIHandler) DoubleTap(ctx context.Context) (timerdto.EventOutput, error) {
	return h.usecase.DoubleTap(ctx)
}

// Wind turns the dial by the given number of minutes; negative unwinds.
func (h CLIHandler) Wind(ctx context.Context, minutes float64) (timerdto.EventOutput, error) {
	return h.usecase.Rotate(ctx, timerdto.RotateInput{Degrees: minutes * degreesPerMinute})
}

func (h CLIHandler) Rotate(ctx context.Context, degrees float64) (timerdto.EventOutput, error) {
	return h.usecase.Rotate(ctx, timerdto.RotateInput{Degrees: degrees})
}

func (h CLIHandler) DragBegin(ctx context.Context, x, y, pivotX, pivotY float64) (timerdto.EventOutput, error) {
	return h.usecase.DragBegin(ctx, timerdto.DragBeginInput{X: x, Y: y, PivotX: pivotX, PivotY: pivotY})
}

func (h CLIHandler) DragMove(ctx context.Context, x, y float64) (timerdto.EventOutput, error) {
	return h.usecase.DragMove(ctx, timerdto.DragInput{X: x, Y: y})
}

func (h CLIHandler) DragEnd(ctx context.Context) (timerdto.EventOutput, error) {
	return h.usecase.DragEnd(ctx)
}

func (h CLIHandler) State(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.State(ctx)
}

func (h CLIHandler) History(ctx context.Context) ([]timerdto.HistoryEntryOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (timerdto.ExportOutput, error) {
	return h.usecase.ExportHistory(ctx, timerdto.ExportInput{Dir: dir})
}
