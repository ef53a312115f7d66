package out

import (
	"context"
	"sort"
	"sync"
	"time"

	"gear/internal/modules/notifier/domain"
	"gear/internal/platform/clock"
)

// Sink receives notifications when they fire.
type Sink interface {
	Deliver(notification domain.Notification, at time.Time)
}

type SinkFunc func(notification domain.Notification, at time.Time)

func (f SinkFunc) Deliver(notification domain.Notification, at time.Time) {
	f(notification, at)
}

type scheduled struct {
	timer   *time.Timer
	pending domain.Pending
}

// LocalBackend fires notifications from in-process timers.
type LocalBackend struct {
	clock clock.Clock
	sink  Sink

	mu      sync.Mutex
	pending map[string]*scheduled
	closed  bool
}

func NewLocalBackend(clock clock.Clock, sink Sink) *LocalBackend {
	return &LocalBackend{clock: clock, sink: sink, pending: map[string]*scheduled{}}
}

func (b *LocalBackend) Name() string { return "local" }

func (b *LocalBackend) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (b *LocalBackend) Schedule(_ context.Context, notification domain.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errBackendClosed
	}
	b.stopLocked(notification.Key)
	entry := &scheduled{pending: domain.Pending{
		Notification: notification,
		FireAt:       b.clock.Now().Add(notification.After),
	}}
	entry.timer = time.AfterFunc(notification.After, func() { b.fire(entry) })
	b.pending[notification.Key] = entry
	return nil
}

func (b *LocalBackend) Cancel(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked(key)
	return nil
}

func (b *LocalBackend) Pending(context.Context) ([]domain.Pending, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Pending, 0, len(b.pending))
	for _, entry := range b.pending {
		out = append(out, entry.pending)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out, nil
}

// Close stops every pending timer. Notifications already firing may still
// reach the sink.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key := range b.pending {
		b.stopLocked(key)
	}
	b.closed = true
	return nil
}

func (b *LocalBackend) fire(entry *scheduled) {
	b.mu.Lock()
	current, ok := b.pending[entry.pending.Key]
	if !ok || current != entry {
		// Replaced or cancelled after the timer had already started firing.
		b.mu.Unlock()
		return
	}
	delete(b.pending, entry.pending.Key)
	b.mu.Unlock()
	b.sink.Deliver(entry.pending.Notification, b.clock.Now())
}

func (b *LocalBackend) stopLocked(key string) {
	entry, ok := b.pending[key]
	if !ok {
		return
	}
	entry.timer.Stop()
	delete(b.pending, key)
}
