// Package journal persists published trigger events to a local SQLite
// database so the event history survives restarts and can be listed from the
// status server.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

// Event is one journaled trigger publish.
type Event struct {
	ID          string
	Timestamp   time.Time
	Trigger     string
	Temperature float64
	Humidity    float64
	Powered     bool
}

// NewEvent creates a journal event with a fresh id.
func NewEvent(trigger string, reading env.Environment, powered bool, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Timestamp:   at,
		Trigger:     trigger,
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Powered:     powered,
	}
}

// Journal stores and lists trigger events.
type Journal interface {
	Store(ctx context.Context, event Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
	Count(ctx context.Context) (int64, error)
	Cleanup(ctx context.Context, maxAge time.Duration) error
	Close() error
}
