package domain

import "math"

type Point struct {
	X float64
	Y float64
}

// AngleOf returns the angle of p around pivot in degrees, in (-180, 180].
func AngleOf(p, pivot Point) float64 {
	return math.Atan2(p.Y-pivot.Y, p.X-pivot.X) * 180 / math.Pi
}

// AngleDelta is the signed shortest rotation from one angle to another,
// normalised to (-180, 180].
func AngleDelta(from, to float64) float64 {
	diff := math.Mod(to, 360) - math.Mod(from, 360)
	if diff > 180 {
		diff -= 360
	} else if diff <= -180 {
		diff += 360
	}
	return diff
}

// Dial turns a stream of drag samples around a fixed pivot into successive
// rotation deltas. Each sample is compared with the previous one, so a drag
// can wind on any number of full turns.
type Dial struct {
	pivot  Point
	last   float64
	active bool
}

func NewDial(pivot Point) *Dial {
	return &Dial{pivot: pivot}
}

func (d *Dial) Pivot() Point { return d.pivot }

func (d *Dial) SetPivot(p Point) { d.pivot = p }

func (d *Dial) Active() bool { return d.active }

func (d *Dial) Begin(p Point) {
	d.last = AngleOf(p, d.pivot)
	d.active = true
}

// Move reports the rotation since the previous sample. A Move without a
// Begin starts the drag at p.
func (d *Dial) Move(p Point) float64 {
	if !d.active {
		d.Begin(p)
		return 0
	}
	current := AngleOf(p, d.pivot)
	delta := AngleDelta(d.last, current)
	d.last = current
	return delta
}

func (d *Dial) End() {
	d.active = false
}

// SecondsFor converts a rotation into the duration it winds on.
func SecondsFor(deltaDegrees float64) float64 {
	return deltaDegrees * SecondsPerTurn / 360
}
