package main

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/hashicorp/go-plugin"

	notifierout "gear/internal/modules/notifier/adapter/out"
	notifierrpc "gear/internal/modules/notifier/adapter/out/rpc"
	"gear/internal/modules/notifier/domain"
	"gear/internal/platform/clock"
)

const defaultCommand = "notify-send"

// server delivers notifications by running a desktop command with the
// title and body as arguments.
type server struct {
	command string
	backend *notifierout.LocalBackend
}

func (s *server) GetMetadata(_ context.Context, _ *notifierrpc.Empty) (*notifierrpc.Metadata, error) {
	return &notifierrpc.Metadata{Name: "desktop", Version: "1.0.0"}, nil
}

func (s *server) RequestPermission(_ context.Context, _ *notifierrpc.Empty) (*notifierrpc.PermissionResponse, error) {
	_, err := exec.LookPath(s.command)
	return &notifierrpc.PermissionResponse{Granted: err == nil}, nil
}

func (s *server) Schedule(ctx context.Context, in *notifierrpc.ScheduleRequest) (*notifierrpc.Empty, error) {
	notification := domain.Notification{
		Key:   in.Key,
		Title: in.Title,
		Body:  in.Body,
		After: time.Duration(in.AfterMS) * time.Millisecond,
	}
	if err := notification.Validate(); err != nil {
		return nil, err
	}
	return &notifierrpc.Empty{}, s.backend.Schedule(ctx, notification)
}

func (s *server) Cancel(ctx context.Context, in *notifierrpc.CancelRequest) (*notifierrpc.Empty, error) {
	return &notifierrpc.Empty{}, s.backend.Cancel(ctx, in.Key)
}

func (s *server) Pending(ctx context.Context, _ *notifierrpc.Empty) (*notifierrpc.PendingResponse, error) {
	pending, err := s.backend.Pending(ctx)
	if err != nil {
		return nil, err
	}
	out := &notifierrpc.PendingResponse{Notifications: make([]notifierrpc.PendingNotification, 0, len(pending))}
	for _, p := range pending {
		out.Notifications = append(out.Notifications, notifierrpc.PendingNotification{
			Key:          p.Key,
			Title:        p.Title,
			Body:         p.Body,
			FireAtUnixMS: p.FireAt.UnixMilli(),
		})
	}
	return out, nil
}

func main() {
	command := os.Getenv("GEAR_NOTIFY_COMMAND")
	if command == "" {
		command = defaultCommand
	}
	sink := notifierout.SinkFunc(func(n domain.Notification, _ time.Time) {
		// stdout belongs to the plugin handshake; the command gets none.
		_ = exec.Command(command, n.Title, n.Body).Run()
	})
	backend := notifierout.NewLocalBackend(clock.SystemClock{}, sink)
	defer backend.Close()

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifierrpc.HandshakeConfig,
		Plugins:         notifierrpc.PluginMap(&server{command: command, backend: backend}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
