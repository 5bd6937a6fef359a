package session

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/events"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/redact"
)

// ChatSession is a multi-turn tutor conversation. Model turns arrive as
// fragments through a Turn; the live accumulator holds the text of the turn
// currently streaming and is folded into History when the stream ends.
type ChatSession struct {
	core

	streamer generation.TurnStreamer
	prompter generation.TutorPrompter
	greeting bool
	profile  domain.UserProfile

	history []domain.ChatTurn
	live    strings.Builder
	current *Turn
}

// ChatView is a consistent snapshot of a chat session.
type ChatView struct {
	ID      string            `json:"id"`
	Status  Status            `json:"status"`
	Error   string            `json:"error,omitempty"`
	History []domain.ChatTurn `json:"history"`
	Live    string            `json:"live,omitempty"`
}

// NewChatSession creates an idle chat session. With WithGreeting and a
// prompter, a known profile seeds the history with a welcome turn.
func NewChatSession(streamer generation.TurnStreamer, opts ...Option) (*ChatSession, error) {
	if streamer == nil {
		return nil, fmt.Errorf("%w: turn streamer cannot be nil", generation.ErrInvalidConfig)
	}
	o := buildOptions(opts)
	s := &ChatSession{
		streamer: streamer,
		prompter: o.prompter,
		greeting: o.greeting,
		profile:  o.profile,
	}
	s.init(KindChat, o)
	s.mu.Lock()
	s.greetLocked()
	s.mu.Unlock()
	return s, nil
}

// SetProfile replaces the learner profile. If the conversation has not
// started yet and greetings are enabled, a welcome turn is added.
func (s *ChatSession) SetProfile(ctx context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.profile = profile
	s.greetLocked()
	s.mu.Unlock()
	s.flush(ctx)
	return nil
}

// greetLocked appends the welcome turn when appropriate. Caller holds mu.
func (s *ChatSession) greetLocked() {
	if !s.greeting || s.prompter == nil || s.profile.IsZero() {
		return
	}
	if len(s.history) > 0 || s.status.InFlight() {
		return
	}
	text, err := s.prompter.Greeting(s.profile)
	if err != nil {
		s.logger.Warn("failed to render greeting", "error", err)
		return
	}
	turn, err := domain.NewChatTurn(domain.RoleModel, text)
	if err != nil {
		return
	}
	s.history = append(s.history, turn)
}

// Submit starts a model turn for prompt. The user turn is appended to
// History immediately; the model turn is appended when the returned Turn
// finishes. An empty prompt, or a turn already streaming, is rejected with
// no state change.
func (s *ChatSession) Submit(ctx context.Context, prompt string) (*Turn, error) {
	return s.submit(ctx, prompt, func(domain.UserProfile) (string, error) { return prompt, nil })
}

// SubmitFile starts an analysis turn for an attached document. History
// records a short attachment notice as the user turn; the model receives the
// full analysis prompt including content.
func (s *ChatSession) SubmitFile(ctx context.Context, fileName, content string) (*Turn, error) {
	if strings.TrimSpace(content) == "" {
		return nil, rejected(domain.ErrEmptySourceText)
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = "document.txt"
	}
	display := AttachmentNotice(fileName)
	return s.submit(ctx, display, func(profile domain.UserProfile) (string, error) {
		if s.prompter == nil {
			return display + "\n\n" + content, nil
		}
		return s.prompter.FileAnalysisPrompt(profile, fileName, content)
	})
}

// AttachmentNotice is the user turn recorded for an attached file.
func AttachmentNotice(fileName string) string {
	return fmt.Sprintf("📎 **File Attached:** `%s`\n\nPlease provide a full academic README-style analysis of this content.", fileName)
}

func (s *ChatSession) submit(
	ctx context.Context,
	userText string,
	buildPrompt func(domain.UserProfile) (string, error),
) (*Turn, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.status.InFlight() {
		s.queueLocked(events.TypeSubmissionRejected, s.status, s.status, nil)
		s.mu.Unlock()
		s.flush(ctx)
		return nil, ErrInFlight
	}
	req := domain.GenerationRequest{Mode: domain.ModeChat, Prompt: userText, History: s.history}
	if err := req.Validate(); err != nil {
		s.mu.Unlock()
		return nil, rejected(err)
	}
	prompt, err := buildPrompt(s.profile)
	if err != nil {
		s.mu.Unlock()
		return nil, rejected(err)
	}

	userTurn, err := domain.NewChatTurn(domain.RoleUser, userText)
	if err != nil {
		s.mu.Unlock()
		return nil, rejected(err)
	}
	prior := slices.Clone(s.history)
	s.history = append(s.history, userTurn)
	s.live.Reset()
	s.lastErr = nil
	s.setStatusLocked(StatusStreaming, events.TypeStreamStarted,
		map[string]int{"history_turns": len(prior)})

	turn := newTurn(s, s.epoch, userTurn)
	s.current = turn
	s.mu.Unlock()
	s.flush(ctx)

	turn.seq = s.streamer.StreamTurn(ctx, prompt, prior)
	turn.ctx = ctx
	return turn, nil
}

// applyFragment appends delta to the accumulator if turn still belongs to
// the live session. It reports false when the turn must stop.
func (s *ChatSession) applyFragment(t *Turn, delta string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.liveLocked(t.epoch) || s.current != t {
		return false
	}
	s.live.WriteString(delta)
	return true
}

// finishTurn folds the accumulator into History. streamErr is nil for a
// complete stream. Partial text is kept on failure; an empty failed turn
// adds nothing. Returns the error the turn should report.
func (s *ChatSession) finishTurn(ctx context.Context, t *Turn, streamErr error) (domain.ChatTurn, bool, error) {
	s.mu.Lock()
	if !s.liveLocked(t.epoch) || s.current != t {
		err := s.deadErrLocked()
		s.mu.Unlock()
		return domain.ChatTurn{}, false, err
	}

	text := s.live.String()
	s.live.Reset()
	s.current = nil

	var (
		final    domain.ChatTurn
		appended bool
	)
	if streamErr == nil || text != "" {
		final, _ = domain.NewChatTurn(domain.RoleModel, text)
		s.history = append(s.history, final)
		appended = true
	}

	payload := map[string]any{"length": len(text)}
	if streamErr == nil {
		s.setStatusLocked(StatusReady, events.TypeStreamCompleted, payload)
	} else {
		s.lastErr = streamErr
		payload["error"] = streamErr.Error()
		s.setStatusLocked(StatusError, events.TypeStreamInterrupted, payload)
	}
	s.mu.Unlock()
	s.flush(ctx)
	return final, appended, streamErr
}

// Live returns the text of the turn currently streaming.
func (s *ChatSession) Live() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.String()
}

// History returns a copy of the finalized turns, oldest first.
func (s *ChatSession) History() []domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Profile returns the learner profile.
func (s *ChatSession) Profile() domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// View returns a snapshot of the session.
func (s *ChatSession) View() ChatView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := ChatView{
		ID:      s.id,
		Status:  s.status,
		History: slices.Clone(s.history),
		Live:    s.live.String(),
	}
	if v.History == nil {
		v.History = []domain.ChatTurn{}
	}
	if s.lastErr != nil {
		v.Error = redact.Error(s.lastErr)
	}
	return v
}

// Acknowledge clears an error. A chat in StatusError accepts new turns
// without acknowledgment; this only resets the visible status.
func (s *ChatSession) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	err := s.acknowledgeLocked()
	s.mu.Unlock()
	s.flush(ctx)
	return err
}

// Reset clears History and the accumulator and returns to StatusIdle. A turn
// still streaming is abandoned: its remaining fragments are dropped.
func (s *ChatSession) Reset(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.epoch++
	s.history = nil
	s.live.Reset()
	s.current = nil
	s.lastErr = nil
	s.setStatusLocked(StatusIdle, events.TypeSessionReset, nil)
	s.mu.Unlock()
	s.flush(ctx)
}

// Close tears the session down. A turn still streaming stops at its next
// fragment without changing any state. Close is idempotent.
func (s *ChatSession) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closeLocked() {
		s.live.Reset()
		s.current = nil
	}
	s.mu.Unlock()
	s.flush(ctx)
}

func (s *ChatSession) liveEpoch(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(epoch)
}

func (s *ChatSession) deadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadErrLocked()
}
