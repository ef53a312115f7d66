package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"go.uber.org/zap"

	notifierrpc "gear/internal/modules/notifier/adapter/out/rpc"
	"gear/internal/modules/notifier/domain"
	notifierout "gear/internal/modules/notifier/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost starts a plugin just long enough to check that it answers.
type GRPCHost struct {
	logger *zap.Logger
}

func NewGRPCHost(logger *zap.Logger) notifierout.Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := connect(manifest, h.logger, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %s", domain.ErrPluginTimeout, manifest.Name)
		}
		return fmt.Errorf("get metadata: %w", err)
	}
	if meta.Name != manifest.Name {
		return fmt.Errorf("plugin reports name %q, manifest says %q", meta.Name, manifest.Name)
	}
	return nil
}

func connect(manifest domain.Manifest, logger *zap.Logger, startTimeout time.Duration) (notifierrpc.NotifierClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  notifierrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          notifierrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           pluginLogger(logger, manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(notifierrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(notifierrpc.NotifierClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// pluginLogger routes go-plugin's own logging into zap at warn level.
func pluginLogger(logger *zap.Logger, name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "plugin." + name,
		Output: zap.NewStdLog(logger.Named("plugin")).Writer(),
		Level:  hclog.Warn,
	})
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
