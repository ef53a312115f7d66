package domain

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// FormatClock renders a wall time as HH:MM:SS in local time, or "" for nil.
func FormatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("15:04:05")
}

// DisplayRange picks the start and end times shown above the dial: the live
// session while one is in progress, otherwise the most recent entry.
func DisplayRange(state State, history []HistoryEntry) (start, end string) {
	if state.Started {
		return FormatClock(state.StartTime), ""
	}
	if len(history) == 0 {
		return "", ""
	}
	last := history[len(history)-1]
	return FormatClock(last.StartTime), FormatClock(&last.EndTime)
}
