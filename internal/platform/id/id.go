package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID issues random (version 4) UUIDs for history entries.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
