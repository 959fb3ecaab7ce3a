// Package event delivers domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

type subscription struct {
	handler shared.EventHandler
	types   map[string]bool // empty matches every event
}

func (s subscription) matches(eventType string) bool {
	return len(s.types) == 0 || s.types[eventType]
}

// InMemoryEventBus dispatches events synchronously, in subscription order.
// A failing or panicking handler is logged and does not stop the others,
// nor does it fail the publisher.
type InMemoryEventBus struct {
	mu            sync.RWMutex
	subscriptions []subscription
	log           *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryEventBus{log: log}
}

// Publish delivers every event to its handlers before returning
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				logger.L(ctx).Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.String("company_id", event.CompanyID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for the handler's own
// EventTypes when none are given. A handler with no types receives everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	types := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}

	b.mu.Lock()
	b.subscriptions = append(b.subscriptions, subscription{handler: handler, types: types})
	b.mu.Unlock()

	b.log.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes every subscription of handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.subscriptions[:0]
	for _, s := range b.subscriptions {
		if s.handler != handler {
			kept = append(kept, s)
		}
	}
	b.subscriptions = kept
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var handlers []shared.EventHandler
	for _, s := range b.subscriptions {
		if s.matches(eventType) {
			handlers = append(handlers, s.handler)
		}
	}
	return handlers
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
