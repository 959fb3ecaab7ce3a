package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate of one company.
// Events are delivered in-process; they are never persisted.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	CompanyID() uuid.UUID
}

// BaseEvent carries the envelope shared by every event
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	At        time.Time `json:"occurred_at"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Company   uuid.UUID `json:"company_id"`
}

// NewBaseEvent stamps a new event envelope
func NewBaseEvent(eventType string, aggregateID, companyID uuid.UUID) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		At:        time.Now(),
		Aggregate: aggregateID,
		Company:   companyID,
	}
}

func (e *BaseEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseEvent) EventType() string      { return e.Type }
func (e *BaseEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e *BaseEvent) CompanyID() uuid.UUID   { return e.Company }

// EventHandler reacts to published events. EventTypes lists the types it
// wants; nil means every type.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher delivers events synchronously to their handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is an EventPublisher handlers can subscribe to
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}
