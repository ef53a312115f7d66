package out

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	notifierrpc "gear/internal/modules/notifier/adapter/out/rpc"
	"gear/internal/modules/notifier/domain"
)

// PluginBackend forwards notifications to a long-running plugin process,
// which owns the timers and the desktop delivery.
type PluginBackend struct {
	manifest domain.Manifest

	mu      sync.Mutex
	client  notifierrpc.NotifierClient
	closeFn func()
}

func NewPluginBackend(manifest domain.Manifest, logger *zap.Logger) (*PluginBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, closeFn, err := connect(manifest, logger, defaultStartTimeout)
	if err != nil {
		return nil, err
	}
	return &PluginBackend{manifest: manifest, client: client, closeFn: closeFn}, nil
}

func (b *PluginBackend) Name() string { return "plugin:" + b.manifest.Name }

func (b *PluginBackend) RequestPermission(ctx context.Context) (bool, error) {
	client, err := b.rpc()
	if err != nil {
		return false, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := client.RequestPermission(callCtx)
	if err != nil {
		return false, b.callError("request permission", callCtx, err)
	}
	return resp.Granted, nil
}

func (b *PluginBackend) Schedule(ctx context.Context, notification domain.Notification) error {
	client, err := b.rpc()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	err = client.Schedule(callCtx, &notifierrpc.ScheduleRequest{
		Key:     notification.Key,
		Title:   notification.Title,
		Body:    notification.Body,
		AfterMS: notification.After.Milliseconds(),
	})
	if err != nil {
		return b.callError("schedule", callCtx, err)
	}
	return nil
}

func (b *PluginBackend) Cancel(ctx context.Context, key string) error {
	client, err := b.rpc()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := client.Cancel(callCtx, &notifierrpc.CancelRequest{Key: key}); err != nil {
		return b.callError("cancel", callCtx, err)
	}
	return nil
}

func (b *PluginBackend) Pending(ctx context.Context) ([]domain.Pending, error) {
	client, err := b.rpc()
	if err != nil {
		return nil, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := client.Pending(callCtx)
	if err != nil {
		return nil, b.callError("pending", callCtx, err)
	}
	out := make([]domain.Pending, 0, len(resp.Notifications))
	for _, n := range resp.Notifications {
		fireAt := time.UnixMilli(n.FireAtUnixMS)
		out = append(out, domain.Pending{
			Notification: domain.Notification{Key: n.Key, Title: n.Title, Body: n.Body, After: time.Until(fireAt)},
			FireAt:       fireAt,
		})
	}
	return out, nil
}

// Close kills the plugin process; its pending notifications go with it.
func (b *PluginBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeFn != nil {
		b.closeFn()
		b.closeFn = nil
		b.client = nil
	}
	return nil
}

func (b *PluginBackend) rpc() (notifierrpc.NotifierClient, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil, errBackendClosed
	}
	return b.client, nil
}

func (b *PluginBackend) callError(op string, callCtx context.Context, err error) error {
	if callCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %s %s", domain.ErrPluginTimeout, b.manifest.Name, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
