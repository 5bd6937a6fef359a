package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
// An empty value behaves as unset because viper ignores empty variables.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// clearScryEnv blanks every variable Load reads so a developer's shell
// cannot leak into the assertions.
func clearScryEnv(t *testing.T) {
	t.Helper()
	setupEnv(t, map[string]string{
		"SCRY_SERVER_PORT":                     "",
		"SCRY_SERVER_LOG_LEVEL":                "",
		"SCRY_SERVER_ALLOWED_ORIGINS":          "",
		"SCRY_SERVER_SHUTDOWN_TIMEOUT_SECONDS": "",
		"SCRY_LLM_GEMINI_API_KEY":              "",
		"SCRY_LLM_QUIZ_MODEL":                  "",
		"SCRY_LLM_FLASHCARD_MODEL":             "",
		"SCRY_LLM_CHAT_MODEL":                  "",
		"SCRY_LLM_PROMPT_TEMPLATE_DIR":         "",
		"SCRY_LLM_QUIZ_QUESTION_COUNT":         "",
		"SCRY_TUTOR_PERSONA_NAME":              "",
		"SCRY_TUTOR_GREETING":                  "",
		"SCRY_CONFIG_DIR":                      "",
	})
}

// TestLoadDefaults verifies that defaults fill every optional setting.
func TestLoadDefaults(t *testing.T) {
	clearScryEnv(t)
	setupEnv(t, map[string]string{
		"SCRY_LLM_GEMINI_API_KEY": "test-api-key",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, 60, cfg.Server.SessionIdleMinutes)
	assert.Equal(t, 60, cfg.Server.SessionSweepIntervalSeconds)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.QuizModel, "quiz uses the capable tier")
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.FlashcardModel, "flashcards use the fast tier")
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.ChatModel)
	assert.Equal(t, 5, cfg.LLM.QuizQuestionCount)
	assert.Equal(t, "FlashMentor", cfg.Tutor.PersonaName)
	assert.True(t, cfg.Tutor.Greeting)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	clearScryEnv(t)
	setupEnv(t, map[string]string{
		"SCRY_SERVER_PORT":             "9090",
		"SCRY_SERVER_LOG_LEVEL":        "debug",
		"SCRY_SERVER_ALLOWED_ORIGINS":  "http://localhost:3000,https://study.example",
		"SCRY_LLM_GEMINI_API_KEY":      "test-api-key",
		"SCRY_LLM_CHAT_MODEL":          "gemini-2.0-flash",
		"SCRY_LLM_PROMPT_TEMPLATE_DIR": "/etc/scry/prompts",
		"SCRY_LLM_QUIZ_QUESTION_COUNT": "7",
		"SCRY_TUTOR_PERSONA_NAME":      "Athena",
		"SCRY_TUTOR_GREETING":          "false",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000", "https://study.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "test-api-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ChatModel)
	assert.Equal(t, "/etc/scry/prompts", cfg.LLM.PromptTemplateDir)
	assert.Equal(t, 7, cfg.LLM.QuizQuestionCount)
	assert.Equal(t, "Athena", cfg.Tutor.PersonaName)
	assert.False(t, cfg.Tutor.Greeting)
}

// TestLoadFromFile verifies that a config.yaml in SCRY_CONFIG_DIR is read and
// that the environment still wins over it.
func TestLoadFromFile(t *testing.T) {
	clearScryEnv(t)
	dir := t.TempDir()
	content := `
server:
  port: 7070
  log_level: warn
llm:
  gemini_api_key: file-key
  flashcard_model: gemini-file-flash
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	setupEnv(t, map[string]string{
		"SCRY_CONFIG_DIR":       dir,
		"SCRY_SERVER_LOG_LEVEL": "error",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Server.LogLevel, "environment overrides the file")
	assert.Equal(t, "file-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-file-flash", cfg.LLM.FlashcardModel)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "missing_api_key",
			envVars: map[string]string{
				"SCRY_SERVER_PORT": "9090",
			},
		},
		{
			name: "invalid_port_number",
			envVars: map[string]string{
				"SCRY_SERVER_PORT":        "999999",
				"SCRY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
		{
			name: "invalid_log_level",
			envVars: map[string]string{
				"SCRY_SERVER_LOG_LEVEL":   "invalid-level",
				"SCRY_LLM_GEMINI_API_KEY": "test-api-key",
			},
		},
		{
			name: "question_count_out_of_range",
			envVars: map[string]string{
				"SCRY_LLM_QUIZ_QUESTION_COUNT": "0",
				"SCRY_LLM_GEMINI_API_KEY":      "test-api-key",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearScryEnv(t)
			setupEnv(t, tc.envVars)

			cfg, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
