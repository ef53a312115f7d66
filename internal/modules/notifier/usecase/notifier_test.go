package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gear/internal/modules/notifier/domain"
	"gear/internal/modules/notifier/dto"
	"gear/internal/modules/notifier/service"
	"gear/internal/modules/notifier/usecase"
	apperrors "gear/internal/platform/errors"
)

type fakeBackend struct {
	granted   bool
	asks      int
	scheduled []domain.Notification
	cancelled []string
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) RequestPermission(context.Context) (bool, error) {
	b.asks++
	return b.granted, nil
}

func (b *fakeBackend) Schedule(_ context.Context, n domain.Notification) error {
	b.scheduled = append(b.scheduled, n)
	return nil
}

func (b *fakeBackend) Cancel(_ context.Context, key string) error {
	b.cancelled = append(b.cancelled, key)
	return nil
}

func (b *fakeBackend) Pending(context.Context) ([]domain.Pending, error) {
	out := []domain.Pending{}
	for _, n := range b.scheduled {
		out = append(out, domain.Pending{Notification: n, FireAt: time.Unix(0, 0).Add(n.After)})
	}
	return out, nil
}

func (b *fakeBackend) Close() error { return nil }

type fakeManifestStore struct {
	manifests []domain.Manifest
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	err error
}

func (h fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return h.err }

func TestScheduleUsesConfiguredTextAndAsksOnce(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{granted: true}
	uc := usecase.NewInteractor(service.NewNotifierService(backend, nil, nil, nil))
	ctx := context.Background()

	permission, err := uc.RequestPermission(ctx)
	if err != nil {
		t.Fatalf("request permission: %v", err)
	}
	if !permission.Granted || permission.Backend != "fake" {
		t.Fatalf("unexpected permission: %+v", permission)
	}
	if err := uc.Schedule(ctx, dto.ScheduleInput{Key: "timerFinished", After: 90 * time.Second}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if backend.asks != 1 {
		t.Fatalf("expected one permission request, got %d", backend.asks)
	}
	got := backend.scheduled[0]
	if got.Title != "Timer Finished" || got.Body != "Your countdown timer has ended." || got.After != 90*time.Second {
		t.Fatalf("unexpected notification: %+v", got)
	}

	if err := uc.UpdateText(ctx, dto.TextInput{Title: "Tea"}); err != nil {
		t.Fatalf("update text: %v", err)
	}
	if err := uc.Schedule(ctx, dto.ScheduleInput{Key: "timerFinished", After: time.Second}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	got = backend.scheduled[1]
	if got.Title != "Tea" || got.Body != "Your countdown timer has ended." {
		t.Fatalf("expected updated title only, got %+v", got)
	}

	pending, err := uc.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[1].Title != "Tea" {
		t.Fatalf("unexpected pending: %+v", pending)
	}
}

func TestScheduleDeniedPermission(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{granted: false}
	uc := usecase.NewInteractor(service.NewNotifierService(backend, nil, nil, nil))
	err := uc.Schedule(context.Background(), dto.ScheduleInput{Key: "timerFinished", After: time.Second})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if len(backend.scheduled) != 0 {
		t.Fatalf("nothing should reach the backend")
	}
}

func TestScheduleAndCancelValidateInput(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{granted: true}
	uc := usecase.NewInteractor(service.NewNotifierService(backend, nil, nil, nil))
	ctx := context.Background()
	if err := uc.Schedule(ctx, dto.ScheduleInput{Key: "timerFinished"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero delay, got %v", err)
	}
	if err := uc.Cancel(ctx, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty key, got %v", err)
	}
	if err := uc.Cancel(ctx, "timerFinished"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(backend.cancelled) != 1 || backend.cancelled[0] != "timerFinished" {
		t.Fatalf("unexpected cancellations: %+v", backend.cancelled)
	}
}

func TestDoctorReportsChecksumAndLifecycle(t *testing.T) {
	t.Parallel()
	good := manifestWithBinary(t, "desktop")
	bad := manifestWithBinary(t, "tampered")
	bad.SHA256 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	missing := domain.Manifest{Name: "missing", Version: "1", Binary: filepath.Join(t.TempDir(), "nope"), SHA256: good.SHA256, Enabled: true}
	invalid := domain.Manifest{Name: "invalid"}
	store := fakeManifestStore{manifests: []domain.Manifest{good, bad, missing, invalid}}
	uc := usecase.NewInteractor(service.NewNotifierService(&fakeBackend{}, store, fakeHost{}, nil))

	results, err := uc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
	if !results[0].BinaryReachable || !results[0].ChecksumValid || !results[0].LifecycleOK || results[0].Error != "" {
		t.Fatalf("expected healthy plugin, got %+v", results[0])
	}
	if results[1].ChecksumValid || results[1].Error != "checksum mismatch" {
		t.Fatalf("expected checksum mismatch, got %+v", results[1])
	}
	if results[2].BinaryReachable || results[2].Error == "" {
		t.Fatalf("expected missing binary, got %+v", results[2])
	}
	if results[3].Error == "" {
		t.Fatalf("expected validation error, got %+v", results[3])
	}
}

func TestRunnableManifest(t *testing.T) {
	t.Parallel()
	good := manifestWithBinary(t, "desktop")
	disabled := manifestWithBinary(t, "off")
	disabled.Enabled = false
	store := fakeManifestStore{manifests: []domain.Manifest{good, disabled}}
	ctx := context.Background()

	m, err := service.RunnableManifest(ctx, store, "desktop")
	if err != nil {
		t.Fatalf("runnable manifest: %v", err)
	}
	if m.Binary != good.Binary {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if _, err := service.RunnableManifest(ctx, store, "off"); !errors.Is(err, domain.ErrPluginDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	if _, err := service.RunnableManifest(ctx, store, "ghost"); !errors.Is(err, domain.ErrPluginNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	tampered := good
	tampered.SHA256 = "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"
	if _, err := service.RunnableManifest(ctx, fakeManifestStore{manifests: []domain.Manifest{tampered}}, "desktop"); !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected checksum error, got %v", err)
	}
	if _, err := service.RunnableManifest(ctx, fakeManifestStore{manifests: []domain.Manifest{good, good}}, "desktop"); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func manifestWithBinary(t *testing.T, name string) domain.Manifest {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	payload := []byte("#!/bin/sh\necho " + name + "\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256(payload)
	return domain.Manifest{Name: name, Version: "1.0.0", Binary: path, SHA256: hex.EncodeToString(hash[:]), Enabled: true}
}
