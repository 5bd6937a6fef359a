package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the requested level of a generated quiz.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Difficulties lists the accepted levels in ascending order.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// ParseDifficulty accepts a level name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

// QuizQuestion is one multiple-choice question produced by the model.
// The JSON names match the schema declared to the model.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Validate reports whether the question can be graded. It never modifies q.
func (q QuizQuestion) Validate() error {
	if len(q.Options) == 0 {
		return NewValidationError("options", "must not be empty", ErrNoOptions)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return NewValidationError("correctAnswer",
			fmt.Sprintf("%d is outside [0,%d)", q.CorrectAnswer, len(q.Options)),
			ErrAnswerOutOfRange)
	}
	return nil
}

// IsCorrect reports whether option is the question's correct answer.
func (q QuizQuestion) IsCorrect(option int) bool {
	return q.Validate() == nil && option == q.CorrectAnswer
}

// ValidateQuiz checks every question and id uniqueness across the set.
// The returned findings are indexed messages; nil means the set is clean.
func ValidateQuiz(questions []QuizQuestion) []error {
	var findings []error
	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			findings = append(findings, fmt.Errorf("question %d: %w", i, err))
		}
		if q.ID == "" {
			continue
		}
		if first, dup := seen[q.ID]; dup {
			findings = append(findings, fmt.Errorf("question %d: %w (first seen at %d)", i, ErrDuplicateID, first))
			continue
		}
		seen[q.ID] = i
	}
	return findings
}

// Score returns the percentage of selections matching the correct answer.
// Unanswered questions count as wrong. An empty set scores zero.
func Score(questions []QuizQuestion, selections map[int]int) float64 {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if sel, ok := selections[i]; ok && sel == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(questions)) * 100
}

// PassingScore is the threshold the results screen treats as a pass.
const PassingScore = 70.0
