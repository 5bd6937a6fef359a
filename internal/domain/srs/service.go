// Package srs implements the review arithmetic for flashcard mastery. A
// card's mastery is an integer in [0,5] that moves only when the learner
// explicitly reviews the card; generation never sets it.
package srs

import (
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// Service defines the operations for applying review outcomes to cards.
type Service interface {
	// ApplyReview returns card with its mastery moved according to outcome.
	// The input card is not modified.
	ApplyReview(card domain.Flashcard, outcome domain.ReviewOutcome) (domain.Flashcard, error)
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a Service with the default parameters.
func NewDefaultService() Service {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a Service with custom parameters.
// A nil params falls back to the defaults.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{params: params}
}

func (s *defaultService) ApplyReview(
	card domain.Flashcard,
	outcome domain.ReviewOutcome,
) (domain.Flashcard, error) {
	if !isValidOutcome(outcome) {
		return card, fmt.Errorf("%w: %q", domain.ErrInvalidReviewOutcome, outcome)
	}
	card.Mastery = calculateNewMastery(card.Mastery, outcome, s.params)
	return card, nil
}

// calculateNewMastery applies the outcome's adjustment and clamps the result.
func calculateNewMastery(current int, outcome domain.ReviewOutcome, params *Params) int {
	if outcome == domain.ReviewOutcomeAgain && params.ResetOnAgain {
		return domain.MinMastery
	}
	return domain.ClampMastery(domain.ClampMastery(current) + params.MasteryAdjustment[outcome])
}

func isValidOutcome(outcome domain.ReviewOutcome) bool {
	switch outcome {
	case domain.ReviewOutcomeAgain, domain.ReviewOutcomeHard,
		domain.ReviewOutcomeGood, domain.ReviewOutcomeEasy:
		return true
	}
	return false
}
