package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"google.golang.org/genai"
)

// DefaultPersona names the tutor when no persona option is given.
const DefaultPersona = "FlashMentor"

// Models is the subset of the genai Models service the client uses.
// *genai.Models satisfies it; tests supply a fake.
type Models interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)

	GenerateContentStream(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Client implements generation.QuizGenerator, generation.FlashcardGenerator
// and generation.TurnStreamer using the Gemini API.
type Client struct {
	logger  *slog.Logger
	config  config.LLMConfig
	models  Models
	prompts *Prompts
	persona string

	// systemInstruction is rendered once; it never changes between turns.
	systemInstruction string
}

var (
	_ generation.QuizGenerator      = (*Client)(nil)
	_ generation.FlashcardGenerator = (*Client)(nil)
	_ generation.TurnStreamer       = (*Client)(nil)
	_ generation.TutorPrompter      = (*Client)(nil)
)

// Option customizes a Client.
type Option func(*Client)

// WithPersona sets the tutor persona name used in the system instruction,
// greeting and file analysis prompts.
func WithPersona(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.persona = name
		}
	}
}

// NewClient creates a Client backed by a real genai client using the Gemini
// API backend.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %s",
			generation.ErrInvalidConfig, redactErr(err))
	}

	return NewClientWithModels(logger, cfg, genaiClient.Models, opts...)
}

// NewClientWithModels creates a Client that sends requests through models.
func NewClientWithModels(
	logger *slog.Logger,
	cfg config.LLMConfig,
	models Models,
	opts ...Option,
) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: models cannot be nil", generation.ErrInvalidConfig)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	prompts, err := LoadPrompts(cfg.PromptTemplateDir)
	if err != nil {
		return nil, err
	}

	c := &Client{
		logger:  logger.With("component", "gemini_client"),
		config:  cfg,
		models:  models,
		prompts: prompts,
		persona: DefaultPersona,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.systemInstruction, err = prompts.System(c.persona)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	return c, nil
}

// validateConfig checks the settings the client cannot run without.
func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.QuizModel == "" || cfg.FlashcardModel == "" || cfg.ChatModel == "" {
		return fmt.Errorf("%w: quiz, flashcard and chat model names are required", generation.ErrInvalidConfig)
	}
	if cfg.QuizQuestionCount < 1 {
		return fmt.Errorf("%w: quiz question count must be at least 1", generation.ErrInvalidConfig)
	}
	return nil
}
