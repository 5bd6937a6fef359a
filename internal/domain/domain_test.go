package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampMastery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ClampMastery(-3))
	assert.Equal(t, 3, ClampMastery(3))
	assert.Equal(t, 5, ClampMastery(9))
}

func TestNewChatTurn(t *testing.T) {
	t.Parallel()

	turn, err := NewChatTurn(RoleModel, "hello")
	require.NoError(t, err)
	assert.Equal(t, RoleModel, turn.Role)
	assert.Equal(t, "hello", turn.Text)
	assert.False(t, turn.Timestamp.IsZero())
	_, parseErr := uuid.Parse(turn.ID)
	assert.NoError(t, parseErr)

	_, err = NewChatTurn(Role("system"), "x")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserProfile(t *testing.T) {
	t.Parallel()

	p := UserProfile{
		Name:            "Ada Lovelace",
		InstitutionType: "University",
		InstitutionName: "Analytical College",
		Department:      "Mathematics",
		Year:            "Sophomore",
	}

	assert.Equal(t, "Ada", p.FirstName())
	assert.Equal(t, "Photosynthesis (University Level: Sophomore in Mathematics)", p.AcademicContext("Photosynthesis"))
	assert.False(t, p.IsZero())

	var empty UserProfile
	assert.True(t, empty.IsZero())
	assert.Equal(t, "", empty.FirstName())
	assert.Equal(t, "Photosynthesis", empty.AcademicContext("Photosynthesis"))
}

func TestGenerationRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr error
	}{
		{name: "quiz_ok", req: GenerationRequest{Mode: ModeQuiz, Topic: "Cells", Difficulty: DifficultyBeginner}},
		{name: "quiz_blank_topic", req: GenerationRequest{Mode: ModeQuiz, Topic: "  ", Difficulty: DifficultyBeginner}, wantErr: ErrEmptyTopic},
		{name: "quiz_bad_difficulty", req: GenerationRequest{Mode: ModeQuiz, Topic: "Cells", Difficulty: "Hard"}, wantErr: ErrInvalidDifficulty},
		{name: "flashcards_ok", req: GenerationRequest{Mode: ModeFlashcards, SourceText: "notes"}},
		{name: "flashcards_empty", req: GenerationRequest{Mode: ModeFlashcards}, wantErr: ErrEmptySourceText},
		{name: "chat_ok", req: GenerationRequest{Mode: ModeChat, Prompt: "hi", History: []ChatTurn{{Role: RoleUser}, {Role: RoleModel}}}},
		{name: "chat_empty_prompt", req: GenerationRequest{Mode: ModeChat}, wantErr: ErrEmptyPrompt},
		{name: "chat_bad_history_role", req: GenerationRequest{Mode: ModeChat, Prompt: "hi", History: []ChatTurn{{Role: "system"}}}, wantErr: ErrInvalidRole},
		{name: "unknown_mode", req: GenerationRequest{Mode: "essay"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseReviewOutcome(t *testing.T) {
	t.Parallel()

	tests := map[string]ReviewOutcome{
		"again":     ReviewOutcomeAgain,
		"Hard":      ReviewOutcomeHard,
		"uncertain": ReviewOutcomeHard,
		"GOOD":      ReviewOutcomeGood,
		"mastered":  ReviewOutcomeGood,
		" easy ":    ReviewOutcomeEasy,
	}
	for input, want := range tests {
		got, err := ParseReviewOutcome(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseReviewOutcome("perfect")
	assert.ErrorIs(t, err, ErrInvalidReviewOutcome)
}
