package srs

import (
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// Params defines all configurable parameters for the mastery algorithm
type Params struct {
	// MasteryAdjustment is added to a card's mastery for each outcome.
	MasteryAdjustment map[domain.ReviewOutcome]int

	// ResetOnAgain drops mastery to the minimum on an "again" outcome
	// instead of applying its adjustment.
	ResetOnAgain bool
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MasteryAdjustment: map[domain.ReviewOutcome]int{
			domain.ReviewOutcomeAgain: -domain.MaxMastery,
			domain.ReviewOutcomeHard:  -1,
			domain.ReviewOutcomeGood:  1,
			domain.ReviewOutcomeEasy:  2,
		},
		ResetOnAgain: true,
	}
}
