package domain

import "strings"

// GenerationMode selects which kind of output a request asks for.
type GenerationMode string

const (
	ModeQuiz       GenerationMode = "quiz"
	ModeFlashcards GenerationMode = "flashcards"
	ModeChat       GenerationMode = "chat"
)

// GenerationRequest is a single call's worth of input to the model.
// It is built by the caller, passed once, and not retained.
type GenerationRequest struct {
	Mode GenerationMode

	// Quiz
	Topic      string
	Difficulty Difficulty

	// Flashcards
	SourceText string

	// Chat
	Prompt  string
	History []ChatTurn
}

// Validate applies the local input guard: nothing is sent to the model for
// an empty topic, empty source text, or empty prompt.
func (r GenerationRequest) Validate() error {
	switch r.Mode {
	case ModeQuiz:
		if strings.TrimSpace(r.Topic) == "" {
			return NewValidationError("topic", "is required", ErrEmptyTopic)
		}
		if _, err := ParseDifficulty(string(r.Difficulty)); err != nil {
			return NewValidationError("difficulty", "must be Beginner, Intermediate or Advanced", err)
		}
	case ModeFlashcards:
		if strings.TrimSpace(r.SourceText) == "" {
			return NewValidationError("text", "is required", ErrEmptySourceText)
		}
	case ModeChat:
		if strings.TrimSpace(r.Prompt) == "" {
			return NewValidationError("prompt", "is required", ErrEmptyPrompt)
		}
		for _, t := range r.History {
			if !t.Role.Valid() {
				return NewValidationError("history", "contains an unknown role", ErrInvalidRole)
			}
		}
	default:
		return NewValidationError("mode", "is unknown", ErrValidation)
	}
	return nil
}
