package eventstore

import "context"

// Store defines the interface for persisting and retrieving events.
type Store interface {
	// Append adds a new event to the store. A zero Timestamp is set to now.
	Append(ctx context.Context, e Event) error

	// List returns the most recent events, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Event, error)

	// ByRun retrieves all events of one run in insertion order.
	ByRun(ctx context.Context, runID string) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}

// NopStore discards events; used when history is disabled.
type NopStore struct{}

func (NopStore) Append(context.Context, Event) error           { return nil }
func (NopStore) List(context.Context, int) ([]Event, error)    { return nil, nil }
func (NopStore) ByRun(context.Context, string) ([]Event, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
