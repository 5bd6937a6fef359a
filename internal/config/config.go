package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
	Tutor  TutorConfig  `mapstructure:"tutor"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins restricts websocket upgrades. Empty permits all origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`

	// SessionIdleMinutes is how long a session may go untouched before the
	// sweeper closes it. Zero disables sweeping.
	SessionIdleMinutes int `mapstructure:"session_idle_minutes" validate:"gte=0"`

	// SessionSweepIntervalSeconds defines how often idle sessions are checked.
	SessionSweepIntervalSeconds int `mapstructure:"session_sweep_interval_seconds" validate:"gte=1"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`

	// QuizModel is the "capable" tier used for quiz generation.
	QuizModel string `mapstructure:"quiz_model" validate:"required"`

	// FlashcardModel is the "fast" tier used for flashcard synthesis.
	FlashcardModel string `mapstructure:"flashcard_model" validate:"required"`

	// ChatModel serves streaming tutor turns.
	ChatModel string `mapstructure:"chat_model" validate:"required"`

	// PromptTemplateDir optionally overrides the embedded prompt templates.
	// Any template file missing from the directory falls back to the default.
	PromptTemplateDir string `mapstructure:"prompt_template_dir"`

	QuizQuestionCount int `mapstructure:"quiz_question_count" validate:"gte=1,lte=20"`
}

// TutorConfig holds the persona settings for chat sessions.
type TutorConfig struct {
	PersonaName string `mapstructure:"persona_name" validate:"required"`

	// Greeting seeds a welcome model turn when the user's profile is known.
	Greeting bool `mapstructure:"greeting"`
}
