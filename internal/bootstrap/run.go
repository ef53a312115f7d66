package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	timerinadapter "gear/internal/modules/timer/adapter/in"
	timerdto "gear/internal/modules/timer/dto"
	"gear/internal/platform/lifecycle"
	uiapp "gear/internal/ui/app"
)

// RunTUI runs the terminal UI until the user quits. Suspend and resume drive
// the lifecycle handler; on exit the timer is backgrounded so a running
// session carries over to the next start.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := lifecycle.NewHandler()
	binding := timerinadapter.NewLifecycleBinding(app.Timer, app.lifecycleReporter(nil))
	binding.Attach(ctx, handler)
	if err := app.Watch(ctx); err != nil {
		app.Logger.Warn("watch settings", zap.Error(err))
	}

	model := uiapp.NewModel(uiapp.Deps{
		Timer:        app.TimerCLI,
		Ticker:       app.Timer,
		Lifecycle:    handler,
		Notify:       app.NotifierCLI,
		Alerts:       app.Alerts,
		TickInterval: app.Settings.TickInterval,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := program.Run()

	binding.Background(context.Background())
	return err
}

const alertGrace = 2 * time.Second

type HeadlessOptions struct {
	// Countdown winds the dial before starting; zero counts up.
	Countdown time.Duration
	Out       io.Writer
}

// RunHeadless restores any saved session, starts the timer and prints every
// tick until a countdown finishes or ctx is cancelled. Cancellation records
// the session as a double tap would. SIGUSR1 and SIGUSR2 background and
// foreground the timer.
func RunHeadless(ctx context.Context, app *App, opts HeadlessOptions) error {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := lifecycle.NewHandler()
	binding := timerinadapter.NewLifecycleBinding(app.Timer, app.lifecycleReporter(out))
	binding.Attach(runCtx, handler)
	watchDone := handler.Watch(runCtx)
	defer func() {
		cancel()
		<-watchDone
	}()
	if err := app.Watch(runCtx); err != nil {
		app.Logger.Warn("watch settings", zap.Error(err))
	}

	binding.Foreground(runCtx)
	if opts.Countdown > 0 {
		if _, err := app.TimerCLI.Wind(runCtx, opts.Countdown.Minutes()); err != nil {
			return fmt.Errorf("wind countdown: %w", err)
		}
	}
	state, err := app.TimerCLI.State(runCtx)
	if err != nil {
		return err
	}
	if !state.Running {
		if _, err := app.TimerCLI.Tap(runCtx); err != nil {
			return fmt.Errorf("start timer: %w", err)
		}
	}

	finished := false
	driver := timerinadapter.NewTickDriver(app.Timer, app.Settings.TickInterval, func(ev timerdto.EventOutput) {
		if ev.State.Backgrounded {
			return
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", ev.State.Display, mode(ev.State))
		if ev.Recorded != nil {
			printRecorded(out, ev.Recorded)
			finished = true
			cancel()
		}
	})
	if err := driver.Run(runCtx); err != nil {
		return err
	}
	if ctx.Err() == nil {
		if finished {
			app.awaitAlert(ctx, out)
		}
		return nil
	}

	ev, err := app.TimerCLI.DoubleTap(context.Background())
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	if ev.Recorded != nil {
		printRecorded(out, ev.Recorded)
	}
	return nil
}

// awaitAlert keeps the process up until the finished countdown's alert has
// been delivered, so closing the local backend does not drop it.
func (a *App) awaitAlert(ctx context.Context, w io.Writer) {
	if a.Alerts == nil {
		return
	}
	wait := alertGrace
	pending, err := a.Notifier.Pending(ctx)
	if err != nil {
		a.Logger.Warn("list pending notifications", zap.Error(err))
	}
	for _, p := range pending {
		if d := time.Until(p.FireAt) + alertGrace; d > wait {
			wait = d
		}
	}
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	select {
	case alert, ok := <-a.Alerts:
		if ok {
			_, _ = fmt.Fprintf(w, "alert\t%s: %s\n", alert.Title, alert.Body)
		}
	case <-deadline.C:
		a.Logger.Warn("timer finished without a delivered alert", zap.Duration("waited", wait))
	case <-ctx.Done():
	}
}

// lifecycleReporter logs transitions and, when w is set, prints them.
func (a *App) lifecycleReporter(w io.Writer) func(string, timerdto.EventOutput, error) {
	return func(transition string, ev timerdto.EventOutput, err error) {
		if err != nil {
			a.Logger.Warn("lifecycle transition", zap.String("transition", transition), zap.Error(err))
			return
		}
		a.Logger.Info("lifecycle transition",
			zap.String("transition", transition),
			zap.String("display", ev.State.Display),
			zap.Bool("running", ev.State.Running),
		)
		if w == nil {
			return
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", transition, ev.State.Display, mode(ev.State))
		if ev.Recorded != nil {
			printRecorded(w, ev.Recorded)
		}
	}
}

func printRecorded(w io.Writer, entry *timerdto.HistoryEntryOutput) {
	_, _ = fmt.Fprintf(w, "recorded\t%s\t%s\n", entry.ID, entry.Duration.Round(time.Second))
}

func mode(state timerdto.StateOutput) string {
	switch {
	case state.Running && state.Countdown:
		return "countdown"
	case state.Running:
		return "running"
	case state.Started:
		return "paused"
	default:
		return "idle"
	}
}
