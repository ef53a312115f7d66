package domain_test

import (
	"math"
	"testing"

	"gear/internal/modules/timer/domain"
)

func TestAngleDeltaTakesShortestPath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		from, to, want float64
	}{
		{0, 90, 90},
		{90, 0, -90},
		{170, -170, 20},
		{-170, 170, -20},
		{0, 180, 180},
		{180, 0, 180},
		{350, 10, 20},
		{720, 45, 45},
	}
	for _, tc := range cases {
		if got := domain.AngleDelta(tc.from, tc.to); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("AngleDelta(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAngleOfUsesScreenCoordinates(t *testing.T) {
	t.Parallel()
	pivot := domain.Point{X: 10, Y: 10}
	if got := domain.AngleOf(domain.Point{X: 20, Y: 10}, pivot); got != 0 {
		t.Fatalf("east should be 0, got %v", got)
	}
	if got := domain.AngleOf(domain.Point{X: 10, Y: 20}, pivot); math.Abs(got-90) > 1e-9 {
		t.Fatalf("below the pivot should be 90, got %v", got)
	}
}

// circle samples a clockwise drag in steps of stepDeg around pivot.
func circle(pivot domain.Point, startDeg, totalDeg, stepDeg float64) []domain.Point {
	var pts []domain.Point
	steps := int(math.Abs(totalDeg / stepDeg))
	for i := 0; i <= steps; i++ {
		a := (startDeg + float64(i)*stepDeg) * math.Pi / 180
		pts = append(pts, domain.Point{X: pivot.X + 50*math.Cos(a), Y: pivot.Y + 50*math.Sin(a)})
	}
	return pts
}

func TestDialFullTurnWindsThirtyMinutes(t *testing.T) {
	t.Parallel()
	pivot := domain.Point{X: 150, Y: 150}
	for _, tc := range []struct {
		name string
		step float64
		want float64
	}{
		{"clockwise", 30, 1800},
		{"counterclockwise", -30, -1800},
	} {
		dial := domain.NewDial(pivot)
		pts := circle(pivot, 15, 360, tc.step)
		dial.Begin(pts[0])
		total := 0.0
		for _, p := range pts[1:] {
			total += domain.SecondsFor(dial.Move(p))
		}
		dial.End()
		if math.Abs(total-tc.want) > 1e-6 {
			t.Fatalf("%s: wound %v seconds, want %v", tc.name, total, tc.want)
		}
		if dial.Active() {
			t.Fatalf("%s: dial still active after End", tc.name)
		}
	}
}

func TestDialMoveWithoutBeginStartsDrag(t *testing.T) {
	t.Parallel()
	dial := domain.NewDial(domain.Point{})
	if d := dial.Move(domain.Point{X: 1, Y: 0}); d != 0 {
		t.Fatalf("first sample must not rotate, got %v", d)
	}
	if d := dial.Move(domain.Point{X: 0, Y: 1}); math.Abs(d-90) > 1e-9 {
		t.Fatalf("expected 90 degrees, got %v", d)
	}
}

func TestDialDrivesStateThroughZero(t *testing.T) {
	t.Parallel()
	pivot := domain.Point{}
	s := domain.State{}
	dial := domain.NewDial(pivot)
	pts := circle(pivot, 0, 360, 45)
	dial.Begin(pts[0])
	for _, p := range pts[1:] {
		s.Rotate(dial.Move(p), t0)
	}
	if math.Abs(s.Seconds-1800) > 1e-6 || !s.Countdown {
		t.Fatalf("expected 30 minute countdown, got %+v", s)
	}
	s.Tap(t0)
	back := circle(pivot, 0, 405, -45)
	dial.Begin(back[0])
	var recorded int
	for _, p := range back[1:] {
		if eff := s.Rotate(dial.Move(p), at(9)); eff.Recorded != nil {
			recorded++
		}
	}
	if recorded != 1 {
		t.Fatalf("expected a single recorded session, got %d", recorded)
	}
	if s.Started || s.Countdown {
		t.Fatalf("expected idle after unwinding past zero, got %+v", s)
	}
}

func TestSecondsFor(t *testing.T) {
	t.Parallel()
	if domain.SecondsFor(360) != 1800 || domain.SecondsFor(-360) != -1800 || domain.SecondsFor(12) != 60 {
		t.Fatalf("unexpected conversion")
	}
}
