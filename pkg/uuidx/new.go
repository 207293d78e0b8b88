// Package uuidx generates time ordered identifiers for runs.
package uuidx

import "github.com/google/uuid"

// New returns a version 7 UUID. It panics if the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// OrNew returns id unless it is the zero value, in which case a new one is generated.
func OrNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return New()
	}
	return id
}
