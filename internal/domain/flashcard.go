package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Mastery bounds for a flashcard.
const (
	MinMastery = 0
	MaxMastery = 5
)

// Flashcard is one front/back study card. Mastery is never produced by the
// model; it starts at zero and moves only through review actions.
type Flashcard struct {
	ID      string `json:"id"`
	Front   string `json:"front"`
	Back    string `json:"back"`
	Mastery int    `json:"mastery"`
}

// ClampMastery bounds m to [MinMastery, MaxMastery].
func ClampMastery(m int) int {
	if m < MinMastery {
		return MinMastery
	}
	if m > MaxMastery {
		return MaxMastery
	}
	return m
}

// ReviewOutcome is the learner's self-assessment after viewing a card.
type ReviewOutcome string

// Possible review outcome values
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// ErrInvalidReviewOutcome is returned for an outcome outside the four above.
var ErrInvalidReviewOutcome = errors.New("invalid review outcome")

// ParseReviewOutcome accepts an outcome name in any letter case. The
// "uncertain" and "mastered" labels used by the study screen map to hard
// and good.
func ParseReviewOutcome(s string) (ReviewOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again":
		return ReviewOutcomeAgain, nil
	case "hard", "uncertain":
		return ReviewOutcomeHard, nil
	case "good", "mastered":
		return ReviewOutcomeGood, nil
	case "easy":
		return ReviewOutcomeEasy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReviewOutcome, s)
	}
}
