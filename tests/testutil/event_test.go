package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandler(t *testing.T) {
	handler := NewMockEventHandler("forms.entry.saved")
	assert.Equal(t, []string{"forms.entry.saved"}, handler.EventTypes())

	event := NewTestEvent("forms.entry.saved", TestOrgID())
	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, 1, handler.HandledCount())
	assert.Equal(t, event, handler.Handled()[0])

	handler.SetError(assert.AnError)
	assert.ErrorIs(t, handler.Handle(context.Background(), event), assert.AnError)

	handler.Reset()
	assert.Equal(t, 0, handler.HandledCount())
	assert.NoError(t, handler.Handle(context.Background(), event))
}

func TestRecordingPublisher(t *testing.T) {
	pub := &RecordingPublisher{}
	a := NewTestEvent("a", uuid.Nil)
	b := NewTestEvent("b", TestOrgID())

	require.NoError(t, pub.Publish(context.Background(), a, b))
	assert.Len(t, pub.Events(), 2)

	pub.Err = assert.AnError
	assert.Error(t, pub.Publish(context.Background(), a))
	assert.Len(t, pub.Events(), 3)
}

func TestNewTestEventWithID(t *testing.T) {
	eventID := uuid.New()
	event := NewTestEventWithID(eventID, "CustomEvent", TestOrgID())

	assert.Equal(t, eventID, event.EventID())
	assert.Equal(t, "CustomEvent", event.EventType())
	assert.Equal(t, TestOrgID(), event.OrgID())
	assert.False(t, event.OccurredAt().IsZero())
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewMockEventHandler()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = handler.Handle(context.Background(), NewTestEvent("e", TestOrgID()))
		_ = handler.Handle(context.Background(), NewTestEvent("e", TestOrgID()))
	}()

	assert.True(t, WaitForEventCount(t, handler, 2, 500*time.Millisecond))
	assert.False(t, WaitForEventCount(t, handler, 3, 30*time.Millisecond))
}
