// Package cli defines the studyctl commands: a terminal front end for the
// same quiz, flashcard and tutor sessions the server exposes.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/gemini"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
)

var version = "dev" // set via ldflags at build time

// Backend is everything the commands need from the generative service.
type Backend interface {
	generation.QuizGenerator
	generation.FlashcardGenerator
	generation.TurnStreamer
	generation.TutorPrompter
}

// BackendFactory builds the Backend once flags have been parsed.
type BackendFactory func(ctx context.Context, logger *slog.Logger) (Backend, error)

// App carries the state shared by every command.
type App struct {
	newBackend  BackendFactory
	interactive bool

	logLevel string
	profile  domain.UserProfile

	logger  *slog.Logger
	backend Backend
}

// NewApp creates an App. A nil factory uses the Gemini client configured
// from the environment.
func NewApp(factory BackendFactory, interactive bool) *App {
	if factory == nil {
		factory = geminiBackend
	}
	return &App{newBackend: factory, interactive: interactive}
}

func geminiBackend(ctx context.Context, log *slog.Logger) (Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	client, err := gemini.NewClient(ctx, log.With("component", "llm_client"), cfg.LLM,
		gemini.WithPersona(cfg.Tutor.PersonaName))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewRootCmd builds the command tree for app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyctl",
		Short: "Quizzes, flashcards and a tutor in the terminal",
		Long: `studyctl generates multiple-choice quizzes and flashcard decks with
Gemini and runs them interactively, or chats with a streaming tutor.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&app.profile.Name, "name", "", "Your name, used by the tutor greeting")
	flags.StringVar(&app.profile.InstitutionType, "institution-type", "", "e.g. University, High School")
	flags.StringVar(&app.profile.InstitutionName, "institution", "", "Name of your school")
	flags.StringVar(&app.profile.Department, "department", "", "Your department or subject area")
	flags.StringVar(&app.profile.Year, "year", "", "Your year of study")

	root.AddCommand(newQuizCmd(app))
	root.AddCommand(newCardsCmd(app))
	root.AddCommand(newTutorCmd(app))
	return root
}

func (app *App) setup(ctx context.Context, logOut io.Writer) error {
	log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: app.logLevel}, logOut)
	if err != nil {
		return err
	}
	app.logger = log

	app.backend, err = app.newBackend(ctx, log)
	if err != nil {
		return err
	}
	return nil
}

// Execute runs studyctl against the real terminal. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(nil, term.IsTerminal(int(os.Stdin.Fd())))
	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
