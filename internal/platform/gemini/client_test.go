package gemini

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithModels_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.LLMConfig)
		wantErr error
	}{
		{name: "missing_api_key", mutate: func(c *config.LLMConfig) { c.GeminiAPIKey = "" }, wantErr: generation.ErrInvalidConfig},
		{name: "missing_chat_model", mutate: func(c *config.LLMConfig) { c.ChatModel = "" }, wantErr: generation.ErrInvalidConfig},
		{name: "zero_question_count", mutate: func(c *config.LLMConfig) { c.QuizQuestionCount = 0 }, wantErr: generation.ErrInvalidConfig},
		{name: "valid", mutate: func(*config.LLMConfig) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.mutate(&cfg)

			client, err := NewClientWithModels(testLogger(), cfg, &mockModels{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClientWithModels_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewClientWithModels(nil, testConfig(), &mockModels{})
	assert.Error(t, err)

	_, err = NewClientWithModels(testLogger(), testConfig(), nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestClient_Persona(t *testing.T) {
	t.Parallel()

	client, err := NewClientWithModels(testLogger(), testConfig(), &mockModels{}, WithPersona("StudyBuddy"))
	require.NoError(t, err)

	assert.Equal(t, "StudyBuddy", client.Persona())
	assert.Contains(t, client.SystemInstruction(), "You are StudyBuddy")
	assert.Contains(t, client.SystemInstruction(), "GitHub-flavored Markdown")

	def, err := NewClientWithModels(testLogger(), testConfig(), &mockModels{}, WithPersona(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultPersona, def.Persona())
}

func TestClient_Greeting(t *testing.T) {
	t.Parallel()

	client, err := NewClientWithModels(testLogger(), testConfig(), &mockModels{})
	require.NoError(t, err)

	profile := domain.UserProfile{
		Name:            "Ada Lovelace",
		InstitutionName: "Analytical College",
		Department:      "Mathematics",
		Year:            "Sophomore",
	}
	text, err := client.Greeting(profile)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello **Ada**!")
	assert.Contains(t, text, "**Sophomore** studying **Mathematics** at *Analytical College*")

	text, err = client.Greeting(domain.UserProfile{})
	require.NoError(t, err)
	assert.Contains(t, text, "Hello! I'm your FlashMentor.")
	assert.NotContains(t, text, "studying")
}

func TestClient_FileAnalysisPrompt(t *testing.T) {
	t.Parallel()

	client, err := NewClientWithModels(testLogger(), testConfig(), &mockModels{})
	require.NoError(t, err)

	text, err := client.FileAnalysisPrompt(
		domain.UserProfile{Year: "Senior", Department: "Biology"},
		"notes.md",
		"Mitochondria produce ATP.",
	)
	require.NoError(t, err)
	assert.Contains(t, text, `I have uploaded: "notes.md"`)
	assert.Contains(t, text, "As a Senior level student in Biology")
	assert.Contains(t, text, "Mitochondria produce ATP.")
}

func TestLoadPrompts_DirectoryOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quiz.tmpl"),
		[]byte("Custom {{.Count}} on {{.Topic}}"), 0o600))

	prompts, err := LoadPrompts(dir)
	require.NoError(t, err)

	text, err := prompts.Quiz("Cells", domain.DifficultyBeginner, 3)
	require.NoError(t, err)
	assert.Equal(t, "Custom 3 on Cells", text)

	// Files absent from the directory use the embedded default.
	text, err = prompts.Flashcards("source")
	require.NoError(t, err)
	assert.Contains(t, text, "Create concise study flashcards")
}

func TestLoadPrompts_InvalidTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "system.tmpl"), []byte("{{.Persona"), 0o600))

	_, err := LoadPrompts(dir)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
