package eventstore

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to a build output directory.
type EventType string

const (
	EventRelocated   EventType = "relocated"
	EventCleaned     EventType = "cleaned"
	EventCleanFailed EventType = "clean_failed"
)

// Event is one recorded relocation or cleanup.
type Event struct {
	ID        int64     `json:"id,omitempty"`
	RunID     string    `json:"run_id"`
	Type      EventType `json:"type"`
	Project   string    `json:"project"`
	Path      string    `json:"path"`
	Commit    string    `json:"commit,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRunID returns an identifier grouping the events of one CLI invocation.
func NewRunID() string {
	return uuid.NewString()
}
