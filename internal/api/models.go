package api

import (
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// CreateSessionRequest is the optional body of the session create routes.
type CreateSessionRequest struct {
	Profile *domain.UserProfile `json:"profile,omitempty"`
}

// CreateSessionResponse identifies a newly created session.
type CreateSessionResponse struct {
	ID     string         `json:"id"`
	Kind   session.Kind   `json:"kind"`
	Status session.Status `json:"status"`
}

// GenerateQuizRequest starts quiz generation. Difficulty is matched
// case-insensitively by domain.ParseDifficulty.
type GenerateQuizRequest struct {
	Topic      string `json:"topic"      validate:"required,max=500"`
	Difficulty string `json:"difficulty" validate:"required"`
}

// SelectAnswerRequest records an answer for the current question.
type SelectAnswerRequest struct {
	Option *int `json:"option" validate:"required,gte=0"`
}

// AdvanceResponse wraps a session view with the completion flag from
// Advance.
type AdvanceResponse[V any] struct {
	Completed bool `json:"completed"`
	Session   V    `json:"session"`
}

// GenerateFlashcardsRequest starts deck generation from pasted text.
type GenerateFlashcardsRequest struct {
	Text string `json:"text" validate:"required"`
}

// ReviewRequest records a review outcome for the current card.
type ReviewRequest struct {
	Outcome string `json:"outcome" validate:"required"`
}

// ReviewResponse reports the reviewed card and the deck after the review.
type ReviewResponse struct {
	Card      domain.Flashcard      `json:"card"`
	Completed bool                  `json:"completed"`
	Session   session.FlashcardView `json:"session"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
