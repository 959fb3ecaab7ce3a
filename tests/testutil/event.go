// Package testutil holds helpers shared by the integration suites.
package testutil

import (
	"context"
	"sync"

	"github.com/tunerp/backend/internal/domain/shared"
)

// EventRecorder is an event handler that keeps every event it receives.
// It subscribes to all event types.
type EventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// EventTypes returns nil: the recorder receives every event
func (r *EventRecorder) EventTypes() []string {
	return nil
}

// Handle records the event
func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events in delivery order
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// OfType returns the recorded events of one type
func (r *EventRecorder) OfType(eventType string) []shared.DomainEvent {
	var matched []shared.DomainEvent
	for _, e := range r.Events() {
		if e.EventType() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// Reset forgets the recorded events
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
