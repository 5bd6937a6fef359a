package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "SCRY"

// Default values applied before files and environment are read.
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultShutdownTimeout   = 10
	DefaultSessionIdle       = 60
	DefaultSweepInterval     = 60
	DefaultQuizModel         = "gemini-1.5-pro"
	DefaultFlashcardModel    = "gemini-1.5-flash"
	DefaultChatModel         = "gemini-1.5-pro"
	DefaultQuizQuestionCount = 5
	DefaultPersonaName       = "FlashMentor"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults must be bound explicitly for Unmarshal to see them.
	if err := v.BindEnv("llm.gemini_api_key"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := v.BindEnv("llm.prompt_template_dir"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks a Config against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeout)
	v.SetDefault("server.session_idle_minutes", DefaultSessionIdle)
	v.SetDefault("server.session_sweep_interval_seconds", DefaultSweepInterval)

	v.SetDefault("llm.quiz_model", DefaultQuizModel)
	v.SetDefault("llm.flashcard_model", DefaultFlashcardModel)
	v.SetDefault("llm.chat_model", DefaultChatModel)
	v.SetDefault("llm.quiz_question_count", DefaultQuizQuestionCount)

	v.SetDefault("tutor.persona_name", DefaultPersonaName)
	v.SetDefault("tutor.greeting", true)
}
