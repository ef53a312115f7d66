package domain

import "time"

const (
	SchemaVersion = 1

	// SecondsPerTurn is how much one full clockwise turn of the dial winds on.
	SecondsPerTurn = 1800.0

	// NotificationKey identifies the single pending "timer finished" alert.
	NotificationKey = "timerFinished"
)

// State is the whole timer. Running implies Started; Countdown is only
// meaningful once Started (a drag may set it ahead of the first tap).
type State struct {
	Seconds   float64
	StartTime *time.Time
	EndTime   *time.Time
	Running   bool
	Started   bool
	Countdown bool
}

// HistoryEntry records one completed session. Entries are never mutated.
type HistoryEntry struct {
	ID        string
	StartTime *time.Time
	EndTime   time.Time
}

func (e HistoryEntry) Duration() time.Duration {
	if e.StartTime == nil || e.EndTime.Before(*e.StartTime) {
		return 0
	}
	return e.EndTime.Sub(*e.StartTime)
}

// Snapshot is what survives a trip to the background. The session fields let
// a new process rebuild the timer; snapshots written without them only
// restore into a timer whose session is still in memory.
type Snapshot struct {
	EnteredAt time.Time `json:"backgroundEntryTime"`
	Seconds   float64   `json:"savedTimerDuration"`
	Running   bool      `json:"timerRunning"`

	StartTime *time.Time `json:"timerStartTime,omitempty"`
	Started   bool       `json:"timerStarted,omitempty"`
	Countdown bool       `json:"countDown,omitempty"`
}

// Effects tells the caller which side effects a transition requires.
// Recorded carries no ID; the caller assigns one before storing it.
type Effects struct {
	Recorded           *HistoryEntry
	CancelNotification bool
	ScheduleAfter      time.Duration
}

// Tick advances the timer by one second.
func (s *State) Tick(now time.Time) Effects {
	if s.Countdown && s.Running && s.Seconds > 0 {
		s.Seconds--
	} else if !s.Countdown && s.Running {
		s.Seconds++
	}
	if s.Countdown && s.Running && s.Seconds <= 0 {
		// The pending alert fires on its own now, so it is left alone.
		return Effects{Recorded: s.finish(now)}
	}
	return Effects{}
}

// Tap starts or pauses the timer.
func (s *State) Tap(now time.Time) Effects {
	s.Running = !s.Running
	if s.StartTime == nil {
		start := now
		s.StartTime = &start
		s.Started = true
	}
	if !s.Running {
		end := now
		s.EndTime = &end
	}
	if !s.Countdown {
		return Effects{}
	}
	return s.rescheduled()
}

// DoubleTap ends the current session, if any, and returns to idle.
func (s *State) DoubleTap(now time.Time) Effects {
	return Effects{Recorded: s.finish(now), CancelNotification: true}
}

// Rotate winds the dial by deltaDegrees; positive is clockwise.
func (s *State) Rotate(deltaDegrees float64, now time.Time) Effects {
	s.Seconds += SecondsFor(deltaDegrees)
	if s.Seconds < 0 {
		return Effects{Recorded: s.finish(now), CancelNotification: true}
	}
	s.Countdown = true
	if s.Running {
		return s.rescheduled()
	}
	return Effects{}
}

// Reset returns to idle. EndTime is kept so the last session stays on display.
func (s *State) Reset() {
	s.Seconds = 0
	s.Running = false
	s.Started = false
	s.StartTime = nil
	s.Countdown = false
}

func (s *State) Background(now time.Time) Snapshot {
	snap := Snapshot{
		EnteredAt: now,
		Seconds:   s.Seconds,
		Running:   s.Running,
		Started:   s.Started,
		Countdown: s.Countdown,
	}
	if s.StartTime != nil {
		start := *s.StartTime
		snap.StartTime = &start
	}
	return snap
}

// Foreground applies the time spent in the background. Only a running timer
// moves: a countdown loses the elapsed time (never below zero), a count-up
// gains it. A countdown that ran out while away is recorded as ending at the
// moment it would have hit zero.
//
// A fresh timer (a new process) takes its session from the snapshot first.
func (s *State) Foreground(snap Snapshot, now time.Time) Effects {
	if !s.Started && s.StartTime == nil {
		s.adopt(snap)
	}
	if !snap.Running {
		if s.Started || s.Countdown {
			s.Seconds = snap.Seconds
		}
		return Effects{}
	}
	if !s.Started {
		// Nothing to resume: the snapshot outlived its session.
		return Effects{}
	}
	elapsed := now.Sub(snap.EnteredAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if !s.Countdown {
		s.Seconds = snap.Seconds + elapsed
		s.Running = true
		return Effects{}
	}
	s.Seconds = snap.Seconds - elapsed
	if s.Seconds > 0 {
		s.Running = true
		return s.rescheduled()
	}
	s.Seconds = 0
	end := snap.EnteredAt.Add(time.Duration(snap.Seconds * float64(time.Second)))
	s.EndTime = &end
	return Effects{Recorded: s.finish(end)}
}

// adopt rebuilds the session a snapshot was taken from. Running is left to
// Foreground, which only resumes a session that was started.
func (s *State) adopt(snap Snapshot) {
	s.Countdown = snap.Countdown
	s.Started = snap.Started && snap.StartTime != nil
	if s.Started {
		start := *snap.StartTime
		s.StartTime = &start
	}
}

// rescheduled replaces the pending alert. A paused countdown gets none; the
// tap that resumes it schedules again.
func (s *State) rescheduled() Effects {
	effects := Effects{CancelNotification: true}
	if s.Running && s.Seconds > 0 {
		effects.ScheduleAfter = time.Duration(s.Seconds * float64(time.Second))
	}
	return effects
}

func (s *State) finish(end time.Time) *HistoryEntry {
	var entry *HistoryEntry
	if s.StartTime != nil {
		start := *s.StartTime
		entry = &HistoryEntry{StartTime: &start, EndTime: end}
	}
	s.Reset()
	return entry
}
