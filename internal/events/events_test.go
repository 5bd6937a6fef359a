package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionEvent(t *testing.T) {
	type cardPayload struct {
		CardID  string `json:"card_id"`
		Mastery int    `json:"mastery"`
	}

	event, err := NewSessionEvent("s-1", "flashcards", TypeCardReviewed, "ready", "ready",
		cardPayload{CardID: "c1", Mastery: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "s-1", event.SessionID)
	assert.Equal(t, "flashcards", event.Kind)
	assert.Equal(t, TypeCardReviewed, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded cardPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, cardPayload{CardID: "c1", Mastery: 3}, decoded)
}

func TestNewSessionEvent_NilPayload(t *testing.T) {
	event, err := NewSessionEvent("s-1", "chat", TypeSessionReset, "ready", "idle", nil)
	require.NoError(t, err)
	assert.Nil(t, event.Payload)
}

func TestNewSessionEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewSessionEvent("s-1", "chat", TypeSessionReset, "ready", "idle", make(chan int))
	assert.Error(t, err)
}

// MockEventHandler is a mock implementation of the EventHandler interface
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *SessionEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *SessionEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *SessionEvent
	h := HandlerFunc(func(_ context.Context, e *SessionEvent) error {
		got = e
		return nil
	})

	event, err := NewSessionEvent("s-2", "quiz", TypeQuizCompleted, "ready", "ready", nil)
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewLogHandler(logger)

	event, err := NewSessionEvent("s-3", "chat", TypeStreamInterrupted, "streaming", "error",
		map[string]int{"partial_length": 12})
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), event))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"session_id":"s-3"`)
	assert.Contains(t, out, `"event_type":"stream.interrupted"`)
	assert.Contains(t, out, `"component":"session_events"`)
	assert.Contains(t, out, "partial_length")
}
