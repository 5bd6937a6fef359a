package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-tutor/internal/events"
)

// pendingEvent is queued while the session lock is held and published after
// it is released, so handlers may call back into the session.
type pendingEvent struct {
	eventType string
	from, to  Status
	payload   any
}

// core is the state shared by all session kinds. Fields are guarded by mu.
type core struct {
	mu sync.Mutex

	id      string
	kind    Kind
	logger  *slog.Logger
	emitter events.EventEmitter
	clock   func() time.Time

	status  Status
	lastErr error
	closed  bool
	// epoch advances on Reset and Close; in-flight results from an older
	// epoch are dropped.
	epoch uint64

	pending []pendingEvent
}

func (c *core) init(kind Kind, o options) {
	c.id = o.id
	c.kind = kind
	c.logger = o.logger.With("component", "session", "session_kind", string(kind), "session_id", o.id)
	c.emitter = o.emitter
	c.clock = o.clock
	c.status = StatusIdle
}

// ID returns the session id.
func (c *core) ID() string { return c.id }

// Kind returns the session kind.
func (c *core) Kind() Kind { return c.kind }

// Status returns the current status.
func (c *core) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastError returns the error that moved the session into StatusError, or
// nil.
func (c *core) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Closed reports whether Close has been called.
func (c *core) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// setStatusLocked moves to status and queues an event. Caller holds mu.
func (c *core) setStatusLocked(to Status, eventType string, payload any) {
	from := c.status
	c.status = to
	c.queueLocked(eventType, from, to, payload)
}

// queueLocked queues an event without changing status. Caller holds mu.
func (c *core) queueLocked(eventType string, from, to Status, payload any) {
	if c.emitter == nil {
		return
	}
	c.pending = append(c.pending, pendingEvent{eventType: eventType, from: from, to: to, payload: payload})
}

// failLocked records err and moves to StatusError. Caller holds mu.
func (c *core) failLocked(eventType string, err error) {
	c.lastErr = err
	c.setStatusLocked(StatusError, eventType, map[string]string{"error": err.Error()})
}

// acknowledgeLocked clears an error. Caller holds mu.
func (c *core) acknowledgeLocked() error {
	if c.closed {
		return ErrSessionClosed
	}
	if c.status != StatusError {
		return nil
	}
	c.lastErr = nil
	c.setStatusLocked(StatusIdle, events.TypeErrorAcknowledged, nil)
	return nil
}

// closeLocked marks the session dead. Caller holds mu. Reports whether this
// call performed the close.
func (c *core) closeLocked() bool {
	if c.closed {
		return false
	}
	c.closed = true
	c.epoch++
	c.setStatusLocked(StatusIdle, events.TypeSessionClosed, nil)
	return true
}

// liveLocked reports whether a result started at epoch may still be applied.
func (c *core) liveLocked(epoch uint64) bool {
	return !c.closed && c.epoch == epoch
}

// deadErrLocked returns the error for a result that may not be applied.
func (c *core) deadErrLocked() error {
	if c.closed {
		return ErrSessionClosed
	}
	return ErrDiscarded
}

// flush publishes queued events. Must be called without mu held.
func (c *core) flush(ctx context.Context) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, p := range pending {
		event, err := events.NewSessionEvent(c.id, string(c.kind), p.eventType, string(p.from), string(p.to), p.payload)
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to build session event", "event_type", p.eventType, "error", err)
			continue
		}
		if err := c.emitter.EmitEvent(ctx, event); err != nil {
			c.logger.WarnContext(ctx, "session event handler failed", "event_type", p.eventType, "error", err)
		}
	}
}
