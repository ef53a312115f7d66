package domain_test

import (
	"testing"
	"time"

	"gear/internal/modules/timer/domain"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	cases := map[float64]string{
		0:       "0:00:00",
		59.9:    "0:00:59",
		65:      "0:01:05",
		1800:    "0:30:00",
		3661:    "1:01:01",
		-4:      "0:00:00",
		36000.5: "10:00:00",
	}
	for in, want := range cases {
		if got := domain.FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayRange(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 2, 25, 9, 30, 0, 0, time.Local)
	end := start.Add(25 * time.Minute)
	history := []domain.HistoryEntry{{ID: "a", StartTime: &start, EndTime: end}}

	from, to := domain.DisplayRange(domain.State{}, history)
	if from != "09:30:00" || to != "09:55:00" {
		t.Fatalf("idle should show last entry, got %q -> %q", from, to)
	}

	live := start.Add(time.Hour)
	from, to = domain.DisplayRange(domain.State{Started: true, Running: true, StartTime: &live}, history)
	if from != "10:30:00" || to != "" {
		t.Fatalf("live session should show its own start, got %q -> %q", from, to)
	}

	from, to = domain.DisplayRange(domain.State{}, nil)
	if from != "" || to != "" {
		t.Fatalf("nothing to show, got %q -> %q", from, to)
	}
}
