package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseEvent: shared.NewBaseEvent(eventType, uuid.New(), uuid.New())}
}

type recordingHandler struct {
	mu      sync.Mutex
	types   []string
	handled []string
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event.EventType())
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	stock := &recordingHandler{types: []string{"ProductStockAlert"}}
	all := &recordingHandler{}
	bus.Subscribe(stock)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ProductStockAlert"), newTestEvent("ProductCreated")))

	assert.Equal(t, []string{"ProductStockAlert"}, stock.handled)
	assert.Equal(t, []string{"ProductStockAlert", "ProductCreated"}, all.handled)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, []string{"B"}, h.handled)
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{err: errors.New("db down")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("ProductStockAlert"))

	assert.NoError(t, err)
	assert.Len(t, healthy.handled, 1)
	assert.Len(t, panicking.handled, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ProductStockAlert")))
	assert.Empty(t, h.handled)
}
