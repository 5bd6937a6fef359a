package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/phrazzld/scry-tutor/internal/api/ws"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/redact"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// TutorHandler serves the streaming tutor over a websocket. Each connection
// owns one chat session; the session is closed when the socket closes.
type TutorHandler struct {
	registry *session.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewTutorHandler creates a TutorHandler. An empty allowedOrigins permits
// any origin.
func NewTutorHandler(registry *session.Registry, logger *slog.Logger, allowedOrigins []string) *TutorHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for TutorHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TutorHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "tutor_handler")),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ServeWS handles GET /tutor/ws.
func (h *TutorHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	conn := ws.NewConn(raw)

	ctx, cancel := context.WithCancel(r.Context())
	chat, err := h.registry.CreateChat(ctx, domain.UserProfile{})
	if err != nil {
		cancel()
		_ = conn.WriteError(GetSafeErrorMessage(err))
		_ = conn.Close()
		return
	}
	log = log.With(slog.String("session_id", chat.ID()))
	log.Info("tutor connected")
	// An open socket keeps its session alive regardless of chat activity.
	conn.OnActivity(func() { h.registry.Touch(chat.ID()) })

	var wg sync.WaitGroup
	// order serializes turn output against reset so no frame of a superseded
	// turn follows the fresh history.
	var order sync.Mutex
	defer func() {
		_ = conn.Close()
		log.Info("tutor disconnected")
	}()
	defer wg.Wait()
	defer func() {
		// Closing the session first stops any turn at its next fragment.
		_ = h.registry.Remove(context.WithoutCancel(ctx), chat.ID())
		cancel()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		conn.KeepAlive(ctx)
	}()

	h.writeHistory(conn, chat)
	h.writeStatus(conn, chat)

	for {
		var frame ws.ClientFrame
		if err := conn.Read(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected websocket close", slog.String("error", err.Error()))
			} else {
				log.Debug("websocket closed")
			}
			return
		}

		switch frame.Action {
		case ws.ActionSend:
			turn, err := chat.Submit(ctx, frame.Text)
			h.startTurn(ctx, log, conn, chat, turn, err, &wg, &order)
		case ws.ActionAttach:
			turn, err := chat.SubmitFile(ctx, frame.FileName, frame.Content)
			h.startTurn(ctx, log, conn, chat, turn, err, &wg, &order)
		case ws.ActionReset:
			order.Lock()
			chat.Reset(ctx)
			h.writeHistory(conn, chat)
			h.writeStatus(conn, chat)
			order.Unlock()
		case ws.ActionProfile:
			if frame.Profile == nil {
				_ = conn.WriteError("Invalid profile: required field")
				continue
			}
			if err := chat.SetProfile(ctx, *frame.Profile); err != nil {
				_ = conn.WriteError(GetSafeErrorMessage(err))
				continue
			}
			h.writeHistory(conn, chat)
		case ws.ActionPing:
			_ = conn.Write(ws.PongFrame{Type: ws.EventPong})
		default:
			log.Warn("unknown tutor action", slog.String("action", string(frame.Action)))
			_ = conn.WriteError("Unknown action: " + string(frame.Action))
		}
	}
}

// startTurn streams turn to the client on its own goroutine so the read
// loop keeps accepting reset and disconnect while a turn is in progress.
func (h *TutorHandler) startTurn(
	ctx context.Context,
	log *slog.Logger,
	conn *ws.Conn,
	chat *session.ChatSession,
	turn *session.Turn,
	err error,
	wg *sync.WaitGroup,
	order *sync.Mutex,
) {
	if err != nil {
		log.Debug("tutor submission rejected", slog.String("error", err.Error()))
		_ = conn.WriteError(GetSafeErrorMessage(err))
		h.writeStatus(conn, chat)
		return
	}
	if err := conn.Write(ws.TurnFrame{Type: ws.EventTurn, Turn: turn.UserTurn()}); err != nil {
		log.Debug("failed to write user turn", slog.String("error", err.Error()))
	}
	h.writeStatus(conn, chat)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for delta := range turn.Fragments() {
			frame := ws.FragmentFrame{Type: ws.EventFragment, Delta: delta, Text: turn.Text()}
			if !writeUnlessSuperseded(order, conn, turn, frame) {
				break
			}
		}

		if final, ok := turn.Final(); ok {
			writeUnlessSuperseded(order, conn, turn,
				ws.TurnFrame{Type: ws.EventTurn, Turn: final, Truncated: turn.Truncated()})
		}
		err := turn.Err()
		switch {
		case err == nil:
		case errors.Is(err, session.ErrSessionClosed), errors.Is(err, session.ErrDiscarded):
			return
		default:
			log.LogAttrs(ctx, slog.LevelWarn, "tutor turn interrupted",
				slog.String("error", redact.Error(err)), slog.Int("partial_length", len(turn.Text())))
			_ = conn.WriteError(GetSafeErrorMessage(err))
		}
		h.writeStatus(conn, chat)
	}()
}

// writeUnlessSuperseded writes frame unless a reset or close has overtaken
// turn. It reports whether streaming should continue.
func writeUnlessSuperseded(order *sync.Mutex, conn *ws.Conn, turn *session.Turn, frame any) bool {
	order.Lock()
	defer order.Unlock()
	if turn.Superseded() {
		return false
	}
	return conn.Write(frame) == nil
}

func (h *TutorHandler) writeHistory(conn *ws.Conn, chat *session.ChatSession) {
	_ = conn.Write(ws.HistoryFrame{Type: ws.EventHistory, History: chat.View().History})
}

func (h *TutorHandler) writeStatus(conn *ws.Conn, chat *session.ChatSession) {
	frame := ws.StatusFrame{Type: ws.EventStatus, Status: string(chat.Status())}
	if err := chat.LastError(); err != nil {
		frame.Error = GetSafeErrorMessage(err)
	}
	_ = conn.Write(frame)
}
