package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrHandlerPanicked wraps a panic recovered from an EventHandler.
var ErrHandlerPanicked = errors.New("event handler panicked")

type subscription struct {
	handler EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventEmitter dispatches session events to handlers held in
// memory. Handlers run synchronously on the emitting goroutine, in
// registration order.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter that delivers every event type
// to each of handlers.
func NewInMemoryEventEmitter(logger *slog.Logger, handlers ...EventHandler) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &InMemoryEventEmitter{logger: logger.With("component", "session_event_emitter")}
	for _, h := range handlers {
		e.subs = append(e.subs, subscription{handler: h})
	}
	return e
}

// RegisterHandler subscribes handler to the given event types, or to all of
// them when none are listed.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{handler: handler, types: types})
	e.logger.Debug("registered event handler",
		"handler_count", len(e.subs),
		"event_types", types)
}

// EmitEvent delivers event to every interested handler. A failing or
// panicking handler does not stop delivery to the rest; the first error is
// returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *SessionEvent) error {
	e.mu.RLock()
	subs := slices.Clone(e.subs)
	e.mu.RUnlock()

	var firstErr error
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		if err := deliver(ctx, sub.handler, event); err != nil {
			e.logger.ErrorContext(ctx, "handler failed to process event",
				"error", err,
				"handler_index", i,
				"session_id", event.SessionID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// deliver calls h, turning a panic into ErrHandlerPanicked so a bad handler
// cannot take down the session goroutine that emitted the event.
func deliver(ctx context.Context, h EventHandler, event *SessionEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
		}
	}()
	return h.HandleEvent(ctx, event)
}
