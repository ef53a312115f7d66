package dto

import "time"

type ScheduleInput struct {
	Key   string
	After time.Duration
	// Title and Body fall back to the configured text when empty.
	Title string
	Body  string
}

type TextInput struct {
	Title string
	Body  string
}

type PermissionOutput struct {
	Backend string
	Granted bool
}

type PendingOutput struct {
	Key    string
	Title  string
	Body   string
	FireAt time.Time
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

// Alert is a delivered notification as seen by the terminal UI.
type Alert struct {
	Key   string
	Title string
	Body  string
	At    time.Time
}
