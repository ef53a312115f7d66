package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	notifierinadapter "gear/internal/modules/notifier/adapter/in"
	notifieroutadapter "gear/internal/modules/notifier/adapter/out"
	notifierdto "gear/internal/modules/notifier/dto"
	notifierin "gear/internal/modules/notifier/port/in"
	notifierout "gear/internal/modules/notifier/port/out"
	notifierservice "gear/internal/modules/notifier/service"
	notifierusecase "gear/internal/modules/notifier/usecase"
	timerinadapter "gear/internal/modules/timer/adapter/in"
	timeroutadapter "gear/internal/modules/timer/adapter/out"
	timerin "gear/internal/modules/timer/port/in"
	timerout "gear/internal/modules/timer/port/out"
	timerservice "gear/internal/modules/timer/service"
	timerusecase "gear/internal/modules/timer/usecase"
	"gear/internal/platform/clock"
	"gear/internal/platform/config"
	"gear/internal/platform/id"
	"gear/internal/platform/logging"
)

const alertBuffer = 8

type Options struct {
	DataDir string
	Verbose bool
	// LogToFile sends logs to the data directory's log file, used while the
	// TUI owns the terminal.
	LogToFile bool
	// Bell overrides the settings' terminal bell when false.
	Bell bool
}

type App struct {
	Config   config.Config
	Settings config.Settings
	Logger   *zap.Logger

	Timer       timerin.Usecase
	Notifier    notifierin.Usecase
	TimerCLI    timerinadapter.CLIHandler
	NotifierCLI notifierinadapter.CLIHandler
	// Alerts carries notifications delivered by the local backend; nil for
	// other backends.
	Alerts <-chan notifierdto.Alert

	closers []func() error
}

func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.New(opts.DataDir)
	if err != nil {
		return nil, err
	}
	if err := config.WriteDefaults(cfg.SettingsPath); err != nil {
		return nil, err
	}
	settings, settingsErr := config.LoadSettings(cfg.SettingsPath)

	logOpts := logging.Options{Level: settings.Log.Level, Verbose: opts.Verbose}
	if opts.LogToFile {
		logOpts.File = cfg.LogPath
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	if settingsErr != nil {
		logger.Warn("load settings, using defaults", zap.String("path", cfg.SettingsPath), zap.Error(settingsErr))
	}

	app := &App{Config: cfg, Settings: settings, Logger: logger}
	app.closers = append(app.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	history, err := app.historyStore()
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	manifests := notifieroutadapter.NewFileManifestStore(cfg.PluginsPath)
	backend := app.notifierBackend(ctx, manifests, opts.Bell)
	app.closers = append(app.closers, backend.Close)

	notifierUC := notifierusecase.NewInteractor(notifierservice.NewNotifierService(
		backend,
		manifests,
		notifieroutadapter.NewGRPCHost(logger),
		logger,
	))
	if err := notifierUC.UpdateText(ctx, notifierdto.TextInput{
		Title: settings.Notifier.Title,
		Body:  settings.Notifier.Body,
	}); err != nil {
		logger.Warn("apply notification text", zap.Error(err))
	}
	if perm, err := notifierUC.RequestPermission(ctx); err != nil {
		logger.Warn("request notification permission", zap.Error(err))
	} else {
		logger.Info("notification permission", zap.String("backend", perm.Backend), zap.Bool("granted", perm.Granted))
	}

	timerSvc := timerservice.NewTimerService(clock.SystemClock{}, id.UUID{}, timerservice.Ports{
		History:   history,
		Snapshots: timeroutadapter.NewFileSnapshotStore(cfg.SnapshotPath),
		Notifier:  timeroutadapter.NewNotifierAdapter(notifierUC),
		Exporter:  timeroutadapter.NewMarkdownHistoryExporter(),
	}, logger)
	if err := timerSvc.LoadHistory(ctx); err != nil {
		logger.Warn("load history", zap.Error(err))
	}
	timerUC := timerusecase.NewInteractor(timerSvc)

	app.Timer = timerUC
	app.Notifier = notifierUC
	app.TimerCLI = timerinadapter.NewCLIHandler(timerUC)
	app.NotifierCLI = notifierinadapter.NewCLIHandler(notifierUC)
	return app, nil
}

func (a *App) historyStore() (timerout.HistoryStore, error) {
	if a.Settings.History.Store == config.HistoryMemory {
		a.Logger.Info("history is kept in memory only")
		return timeroutadapter.NewMemoryHistoryStore(), nil
	}
	store, err := timeroutadapter.NewSQLiteHistoryStore(a.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// notifierBackend picks the configured backend. A plugin that cannot be
// started leaves the timer without notifications rather than failing.
func (a *App) notifierBackend(ctx context.Context, manifests notifierout.ManifestStore, bell bool) notifierout.Backend {
	settings := a.Settings.Notifier
	switch settings.Backend {
	case config.NotifierNone:
		return notifieroutadapter.NewNoopBackend()
	case config.NotifierPlugin:
		manifest, err := notifierservice.RunnableManifest(ctx, manifests, settings.Plugin)
		if err != nil {
			a.Logger.Warn("notifier plugin unavailable", zap.String("plugin", settings.Plugin), zap.Error(err))
			return notifieroutadapter.NewNoopBackend()
		}
		backend, err := notifieroutadapter.NewPluginBackend(manifest, a.Logger)
		if err != nil {
			a.Logger.Warn("start notifier plugin", zap.String("plugin", settings.Plugin), zap.Error(err))
			return notifieroutadapter.NewNoopBackend()
		}
		return backend
	default:
		alerts := notifieroutadapter.NewChannelSink(alertBuffer)
		sinks := notifieroutadapter.MultiSink{notifieroutadapter.NewLogSink(a.Logger), alerts}
		if settings.Bell && bell {
			sinks = append(sinks, notifieroutadapter.NewBellSink(os.Stdout))
		}
		a.Alerts = alerts.Alerts()
		return notifieroutadapter.NewLocalBackend(clock.SystemClock{}, sinks)
	}
}

// Watch reloads gear.yaml on change and applies the notification text.
// Backend and store choices take effect on the next start.
func (a *App) Watch(ctx context.Context) error {
	return config.Watch(ctx, a.Config.SettingsPath, func(s config.Settings) {
		if err := a.Notifier.UpdateText(ctx, notifierdto.TextInput{
			Title: s.Notifier.Title,
			Body:  s.Notifier.Body,
		}); err != nil {
			a.Logger.Warn("apply notification text", zap.Error(err))
			return
		}
		a.Logger.Info("settings reloaded", zap.String("path", a.Config.SettingsPath))
	}, func(err error) {
		a.Logger.Warn("reload settings", zap.Error(err))
	})
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
