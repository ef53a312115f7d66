package in_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	timerin "gear/internal/modules/timer/adapter/in"
	timerdto "gear/internal/modules/timer/dto"
	"gear/internal/platform/lifecycle"
)

type fakeUsecase struct {
	mu          sync.Mutex
	ticks       int
	tickErr     error
	backgrounds int
	foregrounds int
	rotations   []float64
	exportDir   string
}

func (f *fakeUsecase) Tap(context.Context) (timerdto.EventOutput, error) {
	return timerdto.EventOutput{}, nil
}

func (f *fakeUsecase) DoubleTap(context.Context) (timerdto.EventOutput, error) {
	return timerdto.EventOutput{}, nil
}

func (f *fakeUsecase) Tick(context.Context) (timerdto.EventOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
	return timerdto.EventOutput{State: timerdto.StateOutput{Seconds: float64(f.ticks)}}, f.tickErr
}

func (f *fakeUsecase) Rotate(_ context.Context, in timerdto.RotateInput) (timerdto.EventOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotations = append(f.rotations, in.Degrees)
	return timerdto.EventOutput{}, nil
}

func (f *fakeUsecase) DragBegin(context.Context, timerdto.DragBeginInput) (timerdto.EventOutput, error) {
	return timerdto.EventOutput{}, nil
}

func (f *fakeUsecase) DragMove(context.Context, timerdto.DragInput) (timerdto.EventOutput, error) {
	return timerdto.EventOutput{}, nil
}

func (f *fakeUsecase) DragEnd(context.Context) (timerdto.EventOutput, error) {
	return timerdto.EventOutput{}, nil
}

func (f *fakeUsecase) EnterBackground(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backgrounds++
	return nil
}

func (f *fakeUsecase) EnterForeground(context.Context) (timerdto.EventOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foregrounds++
	return timerdto.EventOutput{State: timerdto.StateOutput{Seconds: 70, Running: true}}, nil
}

func (f *fakeUsecase) State(context.Context) (timerdto.StateOutput, error) {
	return timerdto.StateOutput{Backgrounded: true}, nil
}

func (f *fakeUsecase) History(context.Context) ([]timerdto.HistoryEntryOutput, error) {
	return nil, nil
}

func (f *fakeUsecase) ExportHistory(_ context.Context, in timerdto.ExportInput) (timerdto.ExportOutput, error) {
	f.exportDir = in.Dir
	return timerdto.ExportOutput{Dir: in.Dir}, nil
}

func TestTickDriverTicksUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	uc := &fakeUsecase{}
	seen := make(chan float64, 16)
	driver := timerin.NewTickDriver(uc, 5*time.Millisecond, func(out timerdto.EventOutput) {
		seen <- out.State.Seconds
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	for want := 1.0; want <= 3; want++ {
		select {
		case got := <-seen:
			require.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %v never arrived", want)
		}
	}
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("driver did not stop")
	}
}

func TestTickDriverReturnsUsecaseError(t *testing.T) {
	defer goleak.VerifyNone(t)
	boom := errors.New("boom")
	driver := timerin.NewTickDriver(&fakeUsecase{tickErr: boom}, time.Millisecond, nil)
	err := driver.Run(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestLifecycleBindingRoutesTransitions(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	handler := lifecycle.NewHandler()
	var reports []string
	binding := timerin.NewLifecycleBinding(uc, func(transition string, out timerdto.EventOutput, err error) {
		require.NoError(t, err)
		switch transition {
		case timerin.TransitionBackground:
			require.True(t, out.State.Backgrounded)
		case timerin.TransitionForeground:
			require.Equal(t, 70.0, out.State.Seconds)
		}
		reports = append(reports, transition)
	})
	binding.Attach(context.Background(), handler)

	handler.DidEnterBackground()
	handler.WillEnterForeground()
	require.Equal(t, 1, uc.backgrounds)
	require.Equal(t, 1, uc.foregrounds)
	require.Equal(t, []string{timerin.TransitionBackground, timerin.TransitionForeground}, reports)
}

func TestCLIHandlerWindConvertsMinutes(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	h := timerin.NewCLIHandler(uc)
	_, err := h.Wind(context.Background(), 30)
	require.NoError(t, err)
	_, err = h.Wind(context.Background(), -1)
	require.NoError(t, err)
	require.Equal(t, []float64{360, -12}, uc.rotations)

	out, err := h.Export(context.Background(), "/tmp/out")
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", out.Dir)
	require.Equal(t, "/tmp/out", uc.exportDir)
}
