package session

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/events"
)

type MockQuizGenerator struct {
	GenerateQuizFn func(ctx context.Context, topic string, difficulty domain.Difficulty) ([]domain.QuizQuestion, error)

	mu     sync.Mutex
	calls  int
	topics []string
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context, topic string, difficulty domain.Difficulty) ([]domain.QuizQuestion, error) {
	m.mu.Lock()
	m.calls++
	m.topics = append(m.topics, topic)
	m.mu.Unlock()
	return m.GenerateQuizFn(ctx, topic, difficulty)
}

func (m *MockQuizGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type MockFlashcardGenerator struct {
	GenerateFlashcardsFn func(ctx context.Context, sourceText string) ([]domain.Flashcard, error)

	mu    sync.Mutex
	calls int
}

func (m *MockFlashcardGenerator) GenerateFlashcards(ctx context.Context, sourceText string) ([]domain.Flashcard, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.GenerateFlashcardsFn(ctx, sourceText)
}

func (m *MockFlashcardGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type MockTurnStreamer struct {
	StreamTurnFn func(ctx context.Context, prompt string, history []domain.ChatTurn) iter.Seq2[string, error]

	mu          sync.Mutex
	prompts     []string
	lastHistory []domain.ChatTurn
}

func (m *MockTurnStreamer) StreamTurn(ctx context.Context, prompt string, history []domain.ChatTurn) iter.Seq2[string, error] {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.lastHistory = history
	m.mu.Unlock()
	return m.StreamTurnFn(ctx, prompt, history)
}

type MockTutorPrompter struct {
	GreetingFn           func(profile domain.UserProfile) (string, error)
	FileAnalysisPromptFn func(profile domain.UserProfile, fileName, content string) (string, error)
}

func (m *MockTutorPrompter) Greeting(profile domain.UserProfile) (string, error) {
	return m.GreetingFn(profile)
}

func (m *MockTutorPrompter) FileAnalysisPrompt(profile domain.UserProfile, fileName, content string) (string, error) {
	return m.FileAnalysisPromptFn(profile, fileName, content)
}

// recordingEmitter keeps every emitted event in order.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.SessionEvent
}

func (r *recordingEmitter) EmitEvent(_ context.Context, e *events.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sampleQuestions(n int) []domain.QuizQuestion {
	qs := make([]domain.QuizQuestion, n)
	for i := range qs {
		qs[i] = domain.QuizQuestion{
			ID:            string(rune('a' + i)),
			Question:      "Q?",
			Options:       []string{"w", "x", "y", "z"},
			CorrectAnswer: i % 4,
			Explanation:   "because",
		}
	}
	return qs
}

func sampleCards(n int) []domain.Flashcard {
	cards := make([]domain.Flashcard, n)
	for i := range cards {
		cards[i] = domain.Flashcard{ID: string(rune('a' + i)), Front: "front", Back: "back"}
	}
	return cards
}

// fragmentStream yields parts then, if tail is non-nil, tail.
func fragmentStream(parts []string, tail error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range parts {
			if !yield(p, nil) {
				return
			}
		}
		if tail != nil {
			yield("", tail)
		}
	}
}
