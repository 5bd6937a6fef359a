package events

import (
	"context"
	"log/slog"
)

// LogHandler writes each event to a structured logger at Debug level, or
// Warn for failures and interruptions.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger.With("component", "session_events")}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *SessionEvent) error {
	level := slog.LevelDebug
	switch event.Type {
	case TypeGenerationFailed, TypeStreamInterrupted:
		level = slog.LevelWarn
	}

	attrs := []any{
		"session_id", event.SessionID,
		"kind", event.Kind,
		"event_type", event.Type,
		"from", event.From,
		"to", event.To,
	}
	if len(event.Payload) > 0 {
		attrs = append(attrs, "payload", string(event.Payload))
	}
	h.logger.Log(ctx, level, "session transition", attrs...)
	return nil
}
