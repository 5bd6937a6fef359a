package api

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-tutor/internal/api/middleware"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/session"
	"github.com/stretchr/testify/require"
)

type MockQuizGenerator struct {
	GenerateQuizFn func(ctx context.Context, topic string, difficulty domain.Difficulty) ([]domain.QuizQuestion, error)
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context, topic string, difficulty domain.Difficulty) ([]domain.QuizQuestion, error) {
	if m.GenerateQuizFn != nil {
		return m.GenerateQuizFn(ctx, topic, difficulty)
	}
	return nil, nil
}

type MockFlashcardGenerator struct {
	GenerateFlashcardsFn func(ctx context.Context, sourceText string) ([]domain.Flashcard, error)
}

func (m *MockFlashcardGenerator) GenerateFlashcards(ctx context.Context, sourceText string) ([]domain.Flashcard, error) {
	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, sourceText)
	}
	return nil, nil
}

type MockTurnStreamer struct {
	StreamTurnFn func(ctx context.Context, prompt string, history []domain.ChatTurn) iter.Seq2[string, error]
}

func (m *MockTurnStreamer) StreamTurn(ctx context.Context, prompt string, history []domain.ChatTurn) iter.Seq2[string, error] {
	if m.StreamTurnFn != nil {
		return m.StreamTurnFn(ctx, prompt, history)
	}
	return func(func(string, error) bool) {}
}

type testDeps struct {
	quiz   *MockQuizGenerator
	cards  *MockFlashcardGenerator
	stream *MockTurnStreamer
}

func newTestDeps() *testDeps {
	return &testDeps{
		quiz: &MockQuizGenerator{
			GenerateQuizFn: func(context.Context, string, domain.Difficulty) ([]domain.QuizQuestion, error) {
				return testQuestions(), nil
			},
		},
		cards: &MockFlashcardGenerator{
			GenerateFlashcardsFn: func(context.Context, string) ([]domain.Flashcard, error) {
				return testCards(), nil
			},
		},
		stream: &MockTurnStreamer{},
	}
}

// newTestRouter mounts every route the way the server does.
func newTestRouter(t *testing.T, deps *testDeps) (http.Handler, *session.Registry) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := session.NewRegistry(session.RegistryConfig{
		Quizzes:    deps.quiz,
		Flashcards: deps.cards,
		Streamer:   deps.stream,
		Logger:     logger,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(logger))
	r.Get("/health", HealthHandler(registry))
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, Handlers{
			Quiz:       NewQuizHandler(registry, logger),
			Flashcards: NewFlashcardHandler(registry, logger),
			Tutor:      NewTutorHandler(registry, logger, nil),
		})
	})
	return r, registry
}

func testQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{ID: "q1", Question: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1, Explanation: "sum"},
		{ID: "q2", Question: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo", "Bern"}, CorrectAnswer: 0, Explanation: "geo"},
	}
}

func testCards() []domain.Flashcard {
	return []domain.Flashcard{
		{ID: "c1", Front: "Mitosis", Back: "Cell division"},
		{ID: "c2", Front: "ATP", Back: "Energy currency"},
	}
}

// fragments yields parts then, if tail is non-nil, tail.
func fragments(parts []string, tail error) iter.Seq2[string, error] {
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
