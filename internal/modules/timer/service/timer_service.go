package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gear/internal/modules/timer/domain"
	timerout "gear/internal/modules/timer/port/out"
	"gear/internal/platform/clock"
	apperrors "gear/internal/platform/errors"
	"gear/internal/platform/id"
)

type Ports struct {
	History   timerout.HistoryStore
	Snapshots timerout.SnapshotStore
	Notifier  timerout.Notifier
	Exporter  timerout.HistoryExporter
}

// TimerService owns the timer state and the append-only session history, and
// carries out the side effects each transition asks for. Collaborator
// failures are logged and otherwise ignored: the timer keeps working without
// storage or notifications. TimerService is not safe for concurrent use.
type TimerService struct {
	clock  clock.Clock
	idGen  id.Generator
	ports  Ports
	logger *zap.Logger

	state        domain.State
	history      []domain.HistoryEntry
	backgrounded bool
}

func NewTimerService(clock clock.Clock, idGen id.Generator, ports Ports, logger *zap.Logger) *TimerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimerService{clock: clock, idGen: idGen, ports: ports, logger: logger}
}

// LoadHistory seeds the in-memory history from the store.
func (s *TimerService) LoadHistory(ctx context.Context) error {
	entries, err := s.ports.History.List(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	s.history = append([]domain.HistoryEntry(nil), entries...)
	return nil
}

func (s *TimerService) State() domain.State { return s.state }

func (s *TimerService) Backgrounded() bool { return s.backgrounded }

func (s *TimerService) History() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), s.history...)
}

func (s *TimerService) Tick(ctx context.Context) *domain.HistoryEntry {
	if s.backgrounded {
		s.logger.Debug("tick ignored while backgrounded")
		return nil
	}
	return s.apply(ctx, "tick", s.state.Tick(s.clock.Now()))
}

func (s *TimerService) Tap(ctx context.Context) *domain.HistoryEntry {
	return s.apply(ctx, "tap", s.state.Tap(s.clock.Now()))
}

func (s *TimerService) DoubleTap(ctx context.Context) *domain.HistoryEntry {
	return s.apply(ctx, "double tap", s.state.DoubleTap(s.clock.Now()))
}

func (s *TimerService) Rotate(ctx context.Context, deltaDegrees float64) *domain.HistoryEntry {
	return s.apply(ctx, "rotate", s.state.Rotate(deltaDegrees, s.clock.Now()))
}

func (s *TimerService) EnterBackground(ctx context.Context) {
	snapshot := s.state.Background(s.clock.Now())
	s.backgrounded = true
	if err := s.ports.Snapshots.Save(ctx, snapshot); err != nil {
		s.logger.Warn("save background snapshot", zap.Error(err))
		return
	}
	s.logger.Info("entered background",
		zap.Float64("seconds", snapshot.Seconds),
		zap.Bool("running", snapshot.Running))
}

func (s *TimerService) EnterForeground(ctx context.Context) *domain.HistoryEntry {
	s.backgrounded = false
	snapshot, err := s.ports.Snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSnapshot) {
			s.logger.Debug("no background snapshot to restore")
		} else {
			s.logger.Warn("load background snapshot", zap.Error(err))
		}
		return nil
	}
	if err := s.ports.Snapshots.Clear(ctx); err != nil {
		s.logger.Warn("clear background snapshot", zap.Error(err))
	}
	now := s.clock.Now()
	s.logger.Info("entering foreground",
		zap.Duration("away", now.Sub(snapshot.EnteredAt)),
		zap.Float64("saved_seconds", snapshot.Seconds),
		zap.Bool("was_running", snapshot.Running))
	return s.apply(ctx, "foreground", s.state.Foreground(snapshot, now))
}

func (s *TimerService) ExportHistory(ctx context.Context, dir string) (int, string, error) {
	if dir == "" {
		return 0, "", fmt.Errorf("%w: export dir is required", apperrors.ErrInvalidInput)
	}
	if s.ports.Exporter == nil {
		return 0, "", fmt.Errorf("history exporter is not configured")
	}
	return s.ports.Exporter.Export(ctx, dir, s.History())
}

func (s *TimerService) apply(ctx context.Context, event string, effects domain.Effects) *domain.HistoryEntry {
	if effects.CancelNotification {
		if err := s.ports.Notifier.Cancel(ctx, domain.NotificationKey); err != nil {
			s.logger.Warn("cancel notification", zap.String("event", event), zap.Error(err))
		}
	}
	if effects.ScheduleAfter > 0 {
		if err := s.ports.Notifier.Schedule(ctx, domain.NotificationKey, effects.ScheduleAfter); err != nil {
			s.logger.Warn("schedule notification", zap.String("event", event), zap.Error(err))
		}
	}
	if effects.Recorded == nil {
		return nil
	}
	entry := *effects.Recorded
	entry.ID = s.idGen.New()
	s.history = append(s.history, entry)
	if err := s.ports.History.Append(ctx, entry); err != nil {
		s.logger.Warn("persist history entry", zap.String("id", entry.ID), zap.Error(err))
	}
	s.logger.Info("session recorded",
		zap.String("event", event),
		zap.String("id", entry.ID),
		zap.Duration("duration", entry.Duration()))
	return &entry
}
