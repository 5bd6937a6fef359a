package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/events"
	"github.com/phrazzld/scry-tutor/internal/platform/gemini"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// application holds the shared dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger

	client       *gemini.Client
	eventEmitter events.EventEmitter
	registry     *session.Registry
}

// newApplication builds the application with a live Gemini client.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	client, err := gemini.NewClient(ctx,
		logger.With("component", "llm_client"),
		cfg.LLM,
		gemini.WithPersona(cfg.Tutor.PersonaName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	logger.Info("LLM client initialized")

	return newApplicationWithClient(cfg, logger, client)
}

// newApplicationWithClient wires everything downstream of the LLM client.
func newApplicationWithClient(cfg *config.Config, logger *slog.Logger, client *gemini.Client) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		client: client,
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger,
		events.NewLogHandler(logger.With("component", "session_events")))

	var err error
	app.registry, err = session.NewRegistry(session.RegistryConfig{
		Quizzes:    client,
		Flashcards: client,
		Streamer:   client,
		Prompter:   client,
		Emitter:    app.eventEmitter,
		Logger:     logger,
		Greeting:   cfg.Tutor.Greeting,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session registry: %w", err)
	}

	logger.Info("application initialized",
		"persona", client.Persona(),
		"greeting", cfg.Tutor.Greeting)
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes every open session so in-flight turns stop.
func (app *application) cleanup(ctx context.Context) {
	app.registry.CloseAll(ctx)
	app.logger.Info("application shutdown completed")
}
