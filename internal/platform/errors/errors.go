package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoSnapshot       = errors.New("no background snapshot")
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrNotifierNotReady = errors.New("notifier backend not configured")
	ErrNoDragInProgress = errors.New("no drag in progress")
)
