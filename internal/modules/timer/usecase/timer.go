package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gear/internal/modules/timer/domain"
	timerdto "gear/internal/modules/timer/dto"
	timerin "gear/internal/modules/timer/port/in"
	"gear/internal/modules/timer/service"
	apperrors "gear/internal/platform/errors"
)

// Interactor serialises every timer event (ticks, taps, drags, lifecycle
// transitions) so the service only ever sees one at a time.
type Interactor struct {
	mu   sync.Mutex
	svc  *service.TimerService
	dial *domain.Dial
}

func NewInteractor(svc *service.TimerService) timerin.Usecase {
	return &Interactor{svc: svc, dial: domain.NewDial(domain.Point{})}
}

func (i *Interactor) Tap(ctx context.Context) (timerdto.EventOutput, error) {
	return i.event(ctx, i.svc.Tap)
}

func (i *Interactor) DoubleTap(ctx context.Context) (timerdto.EventOutput, error) {
	return i.event(ctx, i.svc.DoubleTap)
}

func (i *Interactor) Tick(ctx context.Context) (timerdto.EventOutput, error) {
	return i.event(ctx, i.svc.Tick)
}

func (i *Interactor) Rotate(ctx context.Context, input timerdto.RotateInput) (timerdto.EventOutput, error) {
	if !finite(input.Degrees) {
		return timerdto.EventOutput{}, fmt.Errorf("%w: rotation must be finite", apperrors.ErrInvalidInput)
	}
	return i.event(ctx, func(ctx context.Context) *domain.HistoryEntry {
		return i.svc.Rotate(ctx, input.Degrees)
	})
}

func (i *Interactor) DragBegin(ctx context.Context, input timerdto.DragBeginInput) (timerdto.EventOutput, error) {
	if !finite(input.X) || !finite(input.Y) || !finite(input.PivotX) || !finite(input.PivotY) {
		return timerdto.EventOutput{}, fmt.Errorf("%w: drag coordinates must be finite", apperrors.ErrInvalidInput)
	}
	return i.event(ctx, func(context.Context) *domain.HistoryEntry {
		i.dial.SetPivot(domain.Point{X: input.PivotX, Y: input.PivotY})
		i.dial.Begin(domain.Point{X: input.X, Y: input.Y})
		return nil
	})
}

func (i *Interactor) DragMove(ctx context.Context, input timerdto.DragInput) (timerdto.EventOutput, error) {
	if !finite(input.X) || !finite(input.Y) {
		return timerdto.EventOutput{}, fmt.Errorf("%w: drag coordinates must be finite", apperrors.ErrInvalidInput)
	}
	var dragErr error
	out, err := i.event(ctx, func(ctx context.Context) *domain.HistoryEntry {
		if !i.dial.Active() {
			dragErr = apperrors.ErrNoDragInProgress
			return nil
		}
		delta := i.dial.Move(domain.Point{X: input.X, Y: input.Y})
		if delta == 0 {
			return nil
		}
		return i.svc.Rotate(ctx, delta)
	})
	if err != nil {
		return timerdto.EventOutput{}, err
	}
	if dragErr != nil {
		return timerdto.EventOutput{}, dragErr
	}
	return out, nil
}

func (i *Interactor) DragEnd(ctx context.Context) (timerdto.EventOutput, error) {
	return i.event(ctx, func(context.Context) *domain.HistoryEntry {
		i.dial.End()
		return nil
	})
}

func (i *Interactor) EnterBackground(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.svc.EnterBackground(ctx)
	return nil
}

func (i *Interactor) EnterForeground(ctx context.Context) (timerdto.EventOutput, error) {
	return i.event(ctx, i.svc.EnterForeground)
}

func (i *Interactor) State(ctx context.Context) (timerdto.StateOutput, error) {
	if err := ctx.Err(); err != nil {
		return timerdto.StateOutput{}, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stateOutput(), nil
}

func (i *Interactor) History(ctx context.Context) ([]timerdto.HistoryEntryOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.mu.Lock()
	entries := i.svc.History()
	i.mu.Unlock()
	out := make([]timerdto.HistoryEntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryOutput(entry))
	}
	return out, nil
}

func (i *Interactor) ExportHistory(ctx context.Context, input timerdto.ExportInput) (timerdto.ExportOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	written, index, err := i.svc.ExportHistory(ctx, input.Dir)
	if err != nil {
		return timerdto.ExportOutput{}, err
	}
	return timerdto.ExportOutput{Dir: input.Dir, Written: written, IndexPath: index}, nil
}

func (i *Interactor) event(ctx context.Context, fn func(context.Context) *domain.HistoryEntry) (timerdto.EventOutput, error) {
	if err := ctx.Err(); err != nil {
		return timerdto.EventOutput{}, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	out := timerdto.EventOutput{}
	if entry := fn(ctx); entry != nil {
		recorded := toEntryOutput(*entry)
		out.Recorded = &recorded
	}
	out.State = i.stateOutput()
	return out, nil
}

func (i *Interactor) stateOutput() timerdto.StateOutput {
	state := i.svc.State()
	start, end := domain.DisplayRange(state, i.svc.History())
	return timerdto.StateOutput{
		Seconds:      state.Seconds,
		Display:      domain.FormatDuration(state.Seconds),
		Running:      state.Running,
		Started:      state.Started,
		Countdown:    state.Countdown,
		StartTime:    state.StartTime,
		EndTime:      state.EndTime,
		RangeStart:   start,
		RangeEnd:     end,
		Backgrounded: i.svc.Backgrounded(),
	}
}

func toEntryOutput(entry domain.HistoryEntry) timerdto.HistoryEntryOutput {
	return timerdto.HistoryEntryOutput{
		ID:        entry.ID,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Duration:  entry.Duration(),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
