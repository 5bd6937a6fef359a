package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by sessions.
const (
	TypeSessionCreated     = "session.created"
	TypeGenerationStarted  = "generation.started"
	TypeGenerationReady    = "generation.ready"
	TypeGenerationFailed   = "generation.failed"
	TypeStreamStarted      = "stream.started"
	TypeStreamCompleted    = "stream.completed"
	TypeStreamInterrupted  = "stream.interrupted"
	TypeSubmissionRejected = "submission.rejected"
	TypeErrorAcknowledged  = "error.acknowledged"
	TypeQuizCompleted      = "quiz.completed"
	TypeCardReviewed       = "card.reviewed"
	TypeDeckCompleted      = "deck.completed"
	TypeSessionReset       = "session.reset"
	TypeSessionClosed      = "session.closed"
)

// SessionEvent records one transition of one session.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// SessionID identifies the session that changed
	SessionID string `json:"session_id"`

	// Kind is the session kind: quiz, flashcards or chat
	Kind string `json:"kind"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// From and To are the session status before and after the transition.
	// They are equal for events that do not change status.
	From string `json:"from"`
	To   string `json:"to"`

	// Payload carries event-specific details serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *SessionEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewSessionEvent creates a SessionEvent. payload may be nil.
func NewSessionEvent(sessionID, kind, eventType, from, to string, payload any) (*SessionEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &SessionEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      kind,
		Type:      eventType,
		From:      from,
		To:        to,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows sessions to publish transitions without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *SessionEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *SessionEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *SessionEvent) error {
	return f(ctx, event)
}
