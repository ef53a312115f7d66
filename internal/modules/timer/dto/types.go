package dto

import "time"

type StateOutput struct {
	Seconds      float64
	Display      string
	Running      bool
	Started      bool
	Countdown    bool
	StartTime    *time.Time
	EndTime      *time.Time
	RangeStart   string
	RangeEnd     string
	Backgrounded bool
}

type HistoryEntryOutput struct {
	ID        string
	StartTime *time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// EventOutput is the timer after an event, plus the session it closed, if any.
type EventOutput struct {
	State    StateOutput
	Recorded *HistoryEntryOutput
}

type RotateInput struct {
	Degrees float64
}

type DragBeginInput struct {
	X      float64
	Y      float64
	PivotX float64
	PivotY float64
}

type DragInput struct {
	X float64
	Y float64
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Dir       string
	Written   int
	IndexPath string
}
