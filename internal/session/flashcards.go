package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/domain/srs"
	"github.com/phrazzld/scry-tutor/internal/events"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/redact"
)

// FlashcardSession runs one deck: synthesis from source text, then
// navigation, flipping and review.
type FlashcardSession struct {
	core

	generator generation.FlashcardGenerator
	reviews   srs.Service

	cards     []domain.Flashcard
	cursor    int
	flipped   bool
	completed bool
}

// FlashcardView is a consistent snapshot of a flashcard session.
type FlashcardView struct {
	ID        string             `json:"id"`
	Status    Status             `json:"status"`
	Error     string             `json:"error,omitempty"`
	Cards     []domain.Flashcard `json:"cards"`
	Cursor    int                `json:"cursor"`
	Flipped   bool               `json:"flipped"`
	Completed bool               `json:"completed"`
	Progress  float64            `json:"progress"`
}

// NewFlashcardSession creates an idle flashcard session.
func NewFlashcardSession(generator generation.FlashcardGenerator, opts ...Option) (*FlashcardSession, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: flashcard generator cannot be nil", generation.ErrInvalidConfig)
	}
	o := buildOptions(opts)
	s := &FlashcardSession{
		generator: generator,
		reviews:   o.srs,
	}
	s.init(KindFlashcards, o)
	return s, nil
}

// Generate synthesizes a deck from sourceText. Pasted text and decoded
// uploads are treated the same. Empty text, or a request already in flight,
// is rejected before any call is made.
func (s *FlashcardSession) Generate(ctx context.Context, sourceText string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.status.InFlight() {
		s.queueLocked(events.TypeSubmissionRejected, s.status, s.status, nil)
		s.mu.Unlock()
		s.flush(ctx)
		return ErrInFlight
	}
	req := domain.GenerationRequest{Mode: domain.ModeFlashcards, SourceText: sourceText}
	if err := req.Validate(); err != nil {
		s.mu.Unlock()
		return rejected(err)
	}

	s.clearSetLocked()
	s.lastErr = nil
	s.setStatusLocked(StatusGenerating, events.TypeGenerationStarted,
		map[string]int{"source_length": len(sourceText)})
	epoch := s.epoch
	s.mu.Unlock()
	s.flush(ctx)

	s.logger.InfoContext(ctx, "generating flashcards", "source_length", len(sourceText))
	cards, err := s.generator.GenerateFlashcards(ctx, sourceText)

	s.mu.Lock()
	if !s.liveLocked(epoch) {
		dead := s.deadErrLocked()
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "dropping flashcard result for replaced session")
		return dead
	}
	switch {
	case err != nil:
		s.failLocked(events.TypeGenerationFailed, err)
	case len(cards) == 0:
		err = generation.ErrExtractionEmpty
		s.failLocked(events.TypeGenerationFailed, err)
	default:
		s.cards = make([]domain.Flashcard, len(cards))
		for i, c := range cards {
			c.Mastery = domain.ClampMastery(c.Mastery)
			s.cards[i] = c
		}
		s.setStatusLocked(StatusReady, events.TypeGenerationReady,
			map[string]int{"card_count": len(cards)})
	}
	s.mu.Unlock()
	s.flush(ctx)
	return err
}

// Advance moves to the next card and shows its front. On the last card the
// cursor stays put and completed=true signals the end of the deck.
func (s *FlashcardSession) Advance(ctx context.Context) (completed bool, err error) {
	s.mu.Lock()
	completed, err = s.advanceLocked()
	s.mu.Unlock()
	s.flush(ctx)
	return completed, err
}

func (s *FlashcardSession) advanceLocked() (bool, error) {
	if err := s.readyLocked(); err != nil {
		return false, err
	}
	s.flipped = false
	if s.cursor < len(s.cards)-1 {
		s.cursor++
		return false, nil
	}
	if !s.completed {
		s.completed = true
		s.queueLocked(events.TypeDeckCompleted, s.status, s.status,
			map[string]int{"card_count": len(s.cards)})
	}
	return true, nil
}

// Retreat moves to the previous card, never below the first.
func (s *FlashcardSession) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	s.flipped = false
	if s.cursor > 0 {
		s.cursor--
	}
	return nil
}

// Flip toggles the visible face of the current card and reports whether the
// back is now showing.
func (s *FlashcardSession) Flip() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return false, err
	}
	s.flipped = !s.flipped
	return s.flipped, nil
}

// Review applies outcome to the current card's mastery and advances.
func (s *FlashcardSession) Review(
	ctx context.Context,
	outcome domain.ReviewOutcome,
) (card domain.Flashcard, completed bool, err error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return domain.Flashcard{}, false, err
	}
	updated, err := s.reviews.ApplyReview(s.cards[s.cursor], outcome)
	if err != nil {
		s.mu.Unlock()
		return domain.Flashcard{}, false, rejected(err)
	}
	s.cards[s.cursor] = updated
	s.queueLocked(events.TypeCardReviewed, s.status, s.status, map[string]any{
		"card_id": updated.ID,
		"outcome": string(outcome),
		"mastery": updated.Mastery,
	})
	completed, err = s.advanceLocked()
	s.mu.Unlock()
	s.flush(ctx)
	return updated, completed, err
}

// Current returns the card under the cursor.
func (s *FlashcardSession) Current() (domain.Flashcard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady || len(s.cards) == 0 {
		return domain.Flashcard{}, false
	}
	return s.cards[s.cursor], true
}

// Cursor returns the zero-based position in the deck.
func (s *FlashcardSession) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Flipped reports whether the back of the current card is showing.
func (s *FlashcardSession) Flipped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flipped
}

// Cards returns a copy of the deck.
func (s *FlashcardSession) Cards() []domain.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

// Progress returns (cursor+1)/len*100, or zero with no active deck.
func (s *FlashcardSession) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *FlashcardSession) progressLocked() float64 {
	if len(s.cards) == 0 {
		return 0
	}
	return float64(s.cursor+1) / float64(len(s.cards)) * 100
}

// View returns a snapshot of the session.
func (s *FlashcardSession) View() FlashcardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := FlashcardView{
		ID:        s.id,
		Status:    s.status,
		Cards:     slices.Clone(s.cards),
		Cursor:    s.cursor,
		Flipped:   s.flipped,
		Completed: s.completed,
		Progress:  s.progressLocked(),
	}
	if v.Cards == nil {
		v.Cards = []domain.Flashcard{}
	}
	if s.lastErr != nil {
		v.Error = redact.Error(s.lastErr)
	}
	return v
}

// Acknowledge clears an error and returns the session to StatusIdle.
func (s *FlashcardSession) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	err := s.acknowledgeLocked()
	s.mu.Unlock()
	s.flush(ctx)
	return err
}

// Reset returns the session to StatusIdle, discarding the deck, the cursor
// and any request in flight. It is a no-op on a closed session.
func (s *FlashcardSession) Reset(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.epoch++
	s.clearSetLocked()
	s.lastErr = nil
	s.setStatusLocked(StatusIdle, events.TypeSessionReset, nil)
	s.mu.Unlock()
	s.flush(ctx)
}

// Close tears the session down. It is idempotent.
func (s *FlashcardSession) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closeLocked() {
		s.clearSetLocked()
	}
	s.mu.Unlock()
	s.flush(ctx)
}

func (s *FlashcardSession) readyLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.status != StatusReady || len(s.cards) == 0 {
		return ErrNotReady
	}
	return nil
}

func (s *FlashcardSession) clearSetLocked() {
	s.cards = nil
	s.cursor = 0
	s.flipped = false
	s.completed = false
}
