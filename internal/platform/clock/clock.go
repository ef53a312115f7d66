package clock

import "time"

// Clock abstracts time to keep the timer engine deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. Values keep their monotonic reading so
// in-process elapsed computations survive wall clock adjustments.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
