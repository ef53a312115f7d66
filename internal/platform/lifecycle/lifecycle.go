// Package lifecycle relays "entered background" and "will enter foreground"
// transitions to whoever registered for them. The terminal UI drives it from
// suspend/resume; headless runs drive it from process signals.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

type Handler struct {
	mu           sync.Mutex
	onBackground func()
	onForeground func()
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) SetDidEnterBackgroundAction(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBackground = fn
}

func (h *Handler) SetWillEnterForegroundAction(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onForeground = fn
}

func (h *Handler) DidEnterBackground() {
	h.mu.Lock()
	fn := h.onBackground
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *Handler) WillEnterForeground() {
	h.mu.Lock()
	fn := h.onForeground
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Watch maps the platform's background/foreground signals onto the handler
// until ctx is done. Signals are registered before Watch returns; the
// returned channel closes once the relay has stopped. Platforms without such
// signals only wait for ctx.
func (h *Handler) Watch(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	background, foreground, ok := transitionSignals()
	if !ok {
		go func() {
			defer close(done)
			<-ctx.Done()
		}()
		return done
	}
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, background, foreground)
	go func() {
		defer close(done)
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				switch sig {
				case background:
					h.DidEnterBackground()
				case foreground:
					h.WillEnterForeground()
				}
			}
		}
	}()
	return done
}
