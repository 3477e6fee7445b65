package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to typed and wildcard handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		typed := newTestHandler("forms.entry.saved")
		other := newTestHandler("other")
		wildcard := newTestHandler()
		bus.Subscribe(typed)
		bus.Subscribe(other)
		bus.Subscribe(wildcard)

		require.NoError(t, bus.Publish(ctx, newTestEvent("forms.entry.saved"), newTestEvent("forms.entry.saved")))
		assert.Equal(t, 2, typed.count())
		assert.Equal(t, 0, other.count())
		assert.Equal(t, 2, wildcard.count())
	})

	t.Run("handler errors and panics are logged not returned", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))

		failing := newTestHandler("e")
		failing.err = errors.New("boom")
		panicking := newTestHandler("e")
		panicking.panicWith = "kaboom"
		after := newTestHandler("e")
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(after)

		require.NoError(t, bus.Publish(ctx, newTestEvent("e")))
		assert.Equal(t, 1, after.count(), "later handlers still run")
		assert.Equal(t, 2, logs.FilterMessage("handler failed to process event").Len())
	})

	t.Run("stopped bus drops events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler("e")
		bus.Subscribe(h)

		require.NoError(t, bus.Stop(ctx))
		require.NoError(t, bus.Publish(ctx, newTestEvent("e")))
		assert.Equal(t, 0, h.count())

		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Publish(ctx, newTestEvent("e")))
		assert.Equal(t, 1, h.count())
	})

	t.Run("unsubscribe", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		h := newTestHandler("e")
		bus.Subscribe(h)
		bus.Unsubscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent("e")))
		assert.Equal(t, 0, h.count())
	})
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	wild := newTestHandler()

	r.Register(a, "x", "y")
	r.Register(b, "x")
	r.Register(wild)

	assert.Equal(t, []shared.EventHandler{a, b, wild}, r.GetHandlers("x"))
	assert.Equal(t, []shared.EventHandler{a, wild}, r.GetHandlers("y"))
	assert.Equal(t, []shared.EventHandler{wild}, r.GetHandlers("z"))
	assert.Equal(t, 3, r.Len())

	r.Unregister(a)
	assert.Equal(t, []shared.EventHandler{b, wild}, r.GetHandlers("x"))
	assert.Equal(t, []shared.EventHandler{wild}, r.GetHandlers("y"))
	assert.Equal(t, 2, r.Len())
}
