package in

import (
	"context"

	timerdto "gear/internal/modules/timer/dto"
	timerin "gear/internal/modules/timer/port/in"
	"gear/internal/platform/lifecycle"
)

// Transition names reported by LifecycleBinding.
const (
	TransitionBackground = "background"
	TransitionForeground = "foreground"
)

// LifecycleBinding saves the timer on the way to the background and
// restores it on the way back.
type LifecycleBinding struct {
	usecase timerin.Usecase
	report  func(transition string, out timerdto.EventOutput, err error)
}

func NewLifecycleBinding(usecase timerin.Usecase, report func(transition string, out timerdto.EventOutput, err error)) *LifecycleBinding {
	return &LifecycleBinding{usecase: usecase, report: report}
}

// Attach registers the binding's callbacks on handler. Callbacks use ctx for
// every call they make.
func (b *LifecycleBinding) Attach(ctx context.Context, handler *lifecycle.Handler) {
	handler.SetDidEnterBackgroundAction(func() { b.Background(ctx) })
	handler.SetWillEnterForegroundAction(func() { b.Foreground(ctx) })
}

func (b *LifecycleBinding) Background(ctx context.Context) {
	err := b.usecase.EnterBackground(ctx)
	if err != nil {
		b.emit(TransitionBackground, timerdto.EventOutput{}, err)
		return
	}
	state, err := b.usecase.State(ctx)
	b.emit(TransitionBackground, timerdto.EventOutput{State: state}, err)
}

func (b *LifecycleBinding) Foreground(ctx context.Context) {
	out, err := b.usecase.EnterForeground(ctx)
	b.emit(TransitionForeground, out, err)
}

func (b *LifecycleBinding) emit(transition string, out timerdto.EventOutput, err error) {
	if b.report != nil {
		b.report(transition, out, err)
	}
}
