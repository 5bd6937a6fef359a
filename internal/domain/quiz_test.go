package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{input: "Beginner", want: DifficultyBeginner},
		{input: "intermediate", want: DifficultyIntermediate},
		{input: " ADVANCED ", want: DifficultyAdvanced},
		{input: "expert", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDifficulty(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDifficulty, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestQuizQuestion_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		q       QuizQuestion
		wantErr error
	}{
		{
			name: "valid_question",
			q:    QuizQuestion{Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
		},
		{
			name:    "no_options",
			q:       QuizQuestion{CorrectAnswer: 0},
			wantErr: ErrNoOptions,
		},
		{
			name:    "answer_past_end",
			q:       QuizQuestion{Options: []string{"a", "b"}, CorrectAnswer: 2},
			wantErr: ErrAnswerOutOfRange,
		},
		{
			name:    "negative_answer",
			q:       QuizQuestion{Options: []string{"a"}, CorrectAnswer: -1},
			wantErr: ErrAnswerOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestValidateQuiz_ReportsEveryFinding(t *testing.T) {
	t.Parallel()

	questions := []QuizQuestion{
		{ID: "1", Options: []string{"a", "b"}, CorrectAnswer: 1},
		{ID: "2", Options: []string{"a", "b"}, CorrectAnswer: 5},
		{ID: "1", Options: []string{"a", "b"}, CorrectAnswer: 0},
		{ID: "", Options: nil},
	}

	findings := ValidateQuiz(questions)

	require.Len(t, findings, 3)
	assert.ErrorIs(t, findings[0], ErrAnswerOutOfRange)
	assert.ErrorIs(t, findings[1], ErrDuplicateID)
	assert.ErrorIs(t, findings[2], ErrNoOptions)
	assert.Empty(t, ValidateQuiz(questions[:1]))
}

func TestScore(t *testing.T) {
	t.Parallel()

	questions := []QuizQuestion{
		{Options: []string{"a", "b"}, CorrectAnswer: 0},
		{Options: []string{"a", "b"}, CorrectAnswer: 1},
		{Options: []string{"a", "b"}, CorrectAnswer: 1},
		{Options: []string{"a", "b"}, CorrectAnswer: 0},
	}

	assert.InDelta(t, 50.0, Score(questions, map[int]int{0: 0, 1: 1, 2: 0}), 0.001)
	assert.InDelta(t, 100.0, Score(questions, map[int]int{0: 0, 1: 1, 2: 1, 3: 0}), 0.001)
	assert.InDelta(t, 0.0, Score(questions, nil), 0.001)
	assert.InDelta(t, 0.0, Score(nil, map[int]int{0: 0}), 0.001)
}
