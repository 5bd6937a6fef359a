package session

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/events"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/redact"
)

// QuizSession runs one quiz: generation of a question set, answer selection
// by cursor position, and scoring once the end of the set is reached.
type QuizSession struct {
	core

	generator generation.QuizGenerator
	profile   domain.UserProfile

	topic      string
	difficulty domain.Difficulty
	questions  []domain.QuizQuestion
	cursor     int
	selections map[int]int
	finished   bool
	readyAt    time.Time
	finishedAt time.Time
}

// QuizView is a consistent snapshot of a quiz session.
type QuizView struct {
	ID         string                `json:"id"`
	Status     Status                `json:"status"`
	Error      string                `json:"error,omitempty"`
	Topic      string                `json:"topic,omitempty"`
	Difficulty domain.Difficulty     `json:"difficulty,omitempty"`
	Questions  []domain.QuizQuestion `json:"questions"`
	Cursor     int                   `json:"cursor"`
	Selections map[int]int           `json:"selections"`
	Finished   bool                  `json:"finished"`
	Score      *float64              `json:"score,omitempty"`
	Passed     *bool                 `json:"passed,omitempty"`
	Elapsed    time.Duration         `json:"-"`
	// ElapsedSeconds mirrors Elapsed for JSON clients.
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// NewQuizSession creates an idle quiz session.
func NewQuizSession(generator generation.QuizGenerator, opts ...Option) (*QuizSession, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: quiz generator cannot be nil", generation.ErrInvalidConfig)
	}
	o := buildOptions(opts)
	s := &QuizSession{
		generator:  generator,
		profile:    o.profile,
		selections: make(map[int]int),
	}
	s.init(KindQuiz, o)
	return s, nil
}

// SetProfile replaces the learner profile used for the next Generate.
func (s *QuizSession) SetProfile(profile domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

// Generate requests a new question set. The topic is decorated with the
// learner's academic context before it is sent. An empty or whitespace topic,
// an unknown difficulty, or a request already in flight is rejected without
// any state change. An empty result moves the session to StatusError with
// generation.ErrExtractionEmpty.
func (s *QuizSession) Generate(ctx context.Context, topic string, difficulty domain.Difficulty) error {
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
	req := domain.GenerationRequest{Mode: domain.ModeQuiz, Topic: topic, Difficulty: difficulty}
	if err := req.Validate(); err != nil {
		s.mu.Unlock()
		return rejected(err)
	}

	s.clearSetLocked()
	s.lastErr = nil
	s.topic = topic
	s.difficulty = difficulty
	s.setStatusLocked(StatusGenerating, events.TypeGenerationStarted,
		map[string]string{"topic": topic, "difficulty": string(difficulty)})
	epoch := s.epoch
	contextTopic := s.profile.AcademicContext(topic)
	s.mu.Unlock()
	s.flush(ctx)

	s.logger.InfoContext(ctx, "generating quiz", "difficulty", string(difficulty))
	questions, err := s.generator.GenerateQuiz(ctx, contextTopic, difficulty)

	s.mu.Lock()
	if !s.liveLocked(epoch) {
		dead := s.deadErrLocked()
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "dropping quiz result for replaced session")
		return dead
	}
	switch {
	case err != nil:
		s.failLocked(events.TypeGenerationFailed, err)
	case len(questions) == 0:
		err = generation.ErrExtractionEmpty
		s.failLocked(events.TypeGenerationFailed, err)
	default:
		s.questions = questions
		s.readyAt = s.clock()
		s.setStatusLocked(StatusReady, events.TypeGenerationReady,
			map[string]int{"question_count": len(questions)})
	}
	s.mu.Unlock()
	s.flush(ctx)
	return err
}

// Select records option as the answer for the question under the cursor,
// replacing any earlier selection. Correctness is not checked here.
func (s *QuizSession) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return err
	}
	if s.finished {
		return ErrQuizFinished
	}
	q := s.questions[s.cursor]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOptionOutOfRange, option, len(q.Options))
	}
	s.selections[s.cursor] = option
	return nil
}

// Advance moves the cursor forward. At the last question it leaves the
// cursor in place, marks the quiz finished and reports completed=true;
// further calls are no-ops that keep reporting completion.
func (s *QuizSession) Advance(ctx context.Context) (completed bool, err error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if s.finished {
		s.mu.Unlock()
		return true, nil
	}
	if s.cursor < len(s.questions)-1 {
		s.cursor++
		s.mu.Unlock()
		return false, nil
	}

	s.finished = true
	s.finishedAt = s.clock()
	score := domain.Score(s.questions, s.selections)
	s.queueLocked(events.TypeQuizCompleted, s.status, s.status, map[string]any{
		"score":  score,
		"passed": score >= domain.PassingScore,
	})
	s.mu.Unlock()
	s.flush(ctx)
	return true, nil
}

// Cursor returns the zero-based position in the question set.
func (s *QuizSession) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Current returns the question under the cursor.
func (s *QuizSession) Current() (domain.QuizQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady || len(s.questions) == 0 {
		return domain.QuizQuestion{}, false
	}
	return s.questions[s.cursor], true
}

// Questions returns a copy of the active set.
func (s *QuizSession) Questions() []domain.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.questions)
}

// Finished reports whether the end of the set has been reached.
func (s *QuizSession) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Score returns the percentage of correct selections. It is only available
// once the quiz is finished.
func (s *QuizSession) Score() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return 0, ErrNotFinished
	}
	return domain.Score(s.questions, s.selections), nil
}

// Elapsed returns the time since the set became ready, frozen at completion.
func (s *QuizSession) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *QuizSession) elapsedLocked() time.Duration {
	switch {
	case s.readyAt.IsZero():
		return 0
	case s.finished:
		return s.finishedAt.Sub(s.readyAt)
	default:
		return s.clock().Sub(s.readyAt)
	}
}

// View returns a snapshot of the session.
func (s *QuizSession) View() QuizView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := QuizView{
		ID:         s.id,
		Status:     s.status,
		Topic:      s.topic,
		Difficulty: s.difficulty,
		Questions:  slices.Clone(s.questions),
		Cursor:     s.cursor,
		Selections: maps.Clone(s.selections),
		Finished:   s.finished,
		Elapsed:    s.elapsedLocked(),
	}
	v.ElapsedSeconds = v.Elapsed.Seconds()
	if v.Questions == nil {
		v.Questions = []domain.QuizQuestion{}
	}
	if s.lastErr != nil {
		v.Error = redact.Error(s.lastErr)
	}
	if s.finished {
		score := domain.Score(s.questions, s.selections)
		passed := score >= domain.PassingScore
		v.Score = &score
		v.Passed = &passed
	}
	return v
}

// Acknowledge clears an error and returns the session to StatusIdle.
func (s *QuizSession) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	err := s.acknowledgeLocked()
	s.mu.Unlock()
	s.flush(ctx)
	return err
}

// Reset returns the session to StatusIdle, discarding the active set and any
// request in flight. It is a no-op on a closed session.
func (s *QuizSession) Reset(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.epoch++
	s.clearSetLocked()
	s.topic = ""
	s.difficulty = ""
	s.lastErr = nil
	s.setStatusLocked(StatusIdle, events.TypeSessionReset, nil)
	s.mu.Unlock()
	s.flush(ctx)
}

// Close tears the session down. It is idempotent.
func (s *QuizSession) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closeLocked() {
		s.clearSetLocked()
	}
	s.mu.Unlock()
	s.flush(ctx)
}

func (s *QuizSession) readyLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.status != StatusReady || len(s.questions) == 0 {
		return ErrNotReady
	}
	return nil
}

func (s *QuizSession) clearSetLocked() {
	s.questions = nil
	s.cursor = 0
	s.selections = make(map[int]int)
	s.finished = false
	s.readyAt = time.Time{}
	s.finishedAt = time.Time{}
}
