package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	DefaultTitle = "Timer Finished"
	DefaultBody  = "Your countdown timer has ended."
)

var (
	ErrPluginDisabled   = errors.New("notifier plugin is disabled")
	ErrPluginNotFound   = errors.New("notifier plugin not found")
	ErrChecksumMismatch = errors.New("notifier plugin checksum mismatch")
	ErrPluginTimeout    = errors.New("notifier plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Notification is a one-shot local alert. Scheduling a notification with a
// key that is already pending replaces the earlier one.
type Notification struct {
	Key   string
	Title string
	Body  string
	After time.Duration
}

func (n Notification) Validate() error {
	if n.Key == "" {
		return fmt.Errorf("notification key is required")
	}
	if n.After <= 0 {
		return fmt.Errorf("notification delay must be positive, got %s", n.After)
	}
	if n.Title == "" && n.Body == "" {
		return fmt.Errorf("notification needs a title or a body")
	}
	return nil
}

type Pending struct {
	Notification
	FireAt time.Time
}

// Manifest describes an external notifier plugin binary.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Metadata struct {
	Name    string
	Version string
}
