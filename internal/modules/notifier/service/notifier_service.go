package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"gear/internal/modules/notifier/domain"
	"gear/internal/modules/notifier/dto"
	notifierout "gear/internal/modules/notifier/port/out"
	apperrors "gear/internal/platform/errors"
)

// NotifierService asks the backend for permission once, fills in the
// configured notification text and forwards scheduling calls.
type NotifierService struct {
	backend notifierout.Backend
	store   notifierout.ManifestStore
	host    notifierout.Host
	logger  *zap.Logger

	mu      sync.Mutex
	asked   bool
	granted bool
	title   string
	body    string
}

func NewNotifierService(backend notifierout.Backend, store notifierout.ManifestStore, host notifierout.Host, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifierService{
		backend: backend,
		store:   store,
		host:    host,
		logger:  logger,
		title:   domain.DefaultTitle,
		body:    domain.DefaultBody,
	}
}

func (s *NotifierService) RequestPermission(ctx context.Context) (dto.PermissionOutput, error) {
	granted, err := s.permission(ctx)
	if err != nil {
		return dto.PermissionOutput{}, err
	}
	return dto.PermissionOutput{Backend: s.backend.Name(), Granted: granted}, nil
}

func (s *NotifierService) Schedule(ctx context.Context, input dto.ScheduleInput) error {
	granted, err := s.permission(ctx)
	if err != nil {
		return err
	}
	if !granted {
		return fmt.Errorf("%w: backend %s", apperrors.ErrPermissionDenied, s.backend.Name())
	}
	s.mu.Lock()
	notification := domain.Notification{Key: input.Key, Title: s.title, Body: s.body, After: input.After}
	s.mu.Unlock()
	if input.Title != "" {
		notification.Title = input.Title
	}
	if input.Body != "" {
		notification.Body = input.Body
	}
	if err := notification.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.backend.Schedule(ctx, notification); err != nil {
		return fmt.Errorf("schedule %s: %w", notification.Key, err)
	}
	s.logger.Debug("notification scheduled",
		zap.String("key", notification.Key),
		zap.Duration("after", notification.After),
		zap.String("backend", s.backend.Name()))
	return nil
}

func (s *NotifierService) Cancel(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("%w: notification key is required", apperrors.ErrInvalidInput)
	}
	if err := s.backend.Cancel(ctx, key); err != nil {
		return fmt.Errorf("cancel %s: %w", key, err)
	}
	return nil
}

func (s *NotifierService) Pending(ctx context.Context) ([]dto.PendingOutput, error) {
	pending, err := s.backend.Pending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingOutput, 0, len(pending))
	for _, p := range pending {
		out = append(out, dto.PendingOutput{Key: p.Key, Title: p.Title, Body: p.Body, FireAt: p.FireAt})
	}
	return out, nil
}

// UpdateText changes the text used for notifications scheduled from now on.
// Empty fields keep the current value.
func (s *NotifierService) UpdateText(_ context.Context, input dto.TextInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if input.Title != "" {
		s.title = input.Title
	}
	if input.Body != "" {
		s.body = input.Body
	}
	return nil
}

func (s *NotifierService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	if s.store == nil {
		return []dto.DoctorResult{}, nil
	}
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *NotifierService) permission(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asked {
		return s.granted, nil
	}
	granted, err := s.backend.RequestPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("request notification permission: %w", err)
	}
	s.asked = true
	s.granted = granted
	s.logger.Info("notification permission",
		zap.String("backend", s.backend.Name()),
		zap.Bool("granted", granted))
	return granted, nil
}

// RunnableManifest finds the named plugin and verifies it is enabled and
// that its binary matches the recorded checksum.
func RunnableManifest(ctx context.Context, store notifierout.ManifestStore, name string) (domain.Manifest, error) {
	manifests, err := store.Load(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	seen := map[string]struct{}{}
	for _, m := range manifests {
		if err := m.Validate(); err != nil {
			return domain.Manifest{}, err
		}
		if _, ok := seen[m.Name]; ok {
			return domain.Manifest{}, fmt.Errorf("duplicate plugin name: %s", m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	for _, m := range manifests {
		if m.Name != name {
			continue
		}
		if !m.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, name)
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return m, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginNotFound, name)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
