package generation

import (
	"context"
	"iter"
	"sync/atomic"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// QuizGenerator produces a fully materialized set of quiz questions.
type QuizGenerator interface {
	// GenerateQuiz issues exactly one request for questions about topic at
	// the given difficulty. An empty slice with a nil error means the model
	// answered but nothing usable was extracted; callers treat that as a
	// soft failure.
	GenerateQuiz(ctx context.Context, topic string, difficulty domain.Difficulty) ([]domain.QuizQuestion, error)
}

// FlashcardGenerator produces a set of flashcards from source text.
type FlashcardGenerator interface {
	// GenerateFlashcards issues exactly one request. Returned cards always
	// have zero mastery.
	GenerateFlashcards(ctx context.Context, sourceText string) ([]domain.Flashcard, error)
}

// TurnStreamer produces one conversational turn as incremental fragments.
type TurnStreamer interface {
	// StreamTurn sends prompt with the prior history (oldest first) and
	// yields text deltas in emission order. A non-nil error is yielded at
	// most once and ends the sequence. The sequence may only be consumed
	// once.
	StreamTurn(ctx context.Context, prompt string, history []domain.ChatTurn) iter.Seq2[string, error]
}

// TutorPrompter renders the fixed texts a tutor session uses around model
// turns.
type TutorPrompter interface {
	// Greeting returns the welcome text shown as the first model turn.
	Greeting(profile domain.UserProfile) (string, error)

	// FileAnalysisPrompt returns the prompt sent when the learner attaches a
	// document. content is the document's decoded text.
	FileAnalysisPrompt(profile domain.UserProfile, fileName, content string) (string, error)
}

// OneShot wraps seq so that a second iteration yields ErrStreamConsumed
// instead of replaying or restarting the underlying call.
func OneShot(seq iter.Seq2[string, error]) iter.Seq2[string, error] {
	var used atomic.Bool
	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", ErrStreamConsumed)
			return
		}
		seq(yield)
	}
}

// Collect drains seq and returns the concatenated text along with the first
// error yielded, if any. Text delivered before the error is kept.
func Collect(seq iter.Seq2[string, error]) (string, error) {
	var text []byte
	for delta, err := range seq {
		if err != nil {
			return string(text), err
		}
		text = append(text, delta...)
	}
	return string(text), nil
}
