package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/events"
	"github.com/phrazzld/scry-tutor/internal/generation"
)

// closer is implemented by every session kind.
type closer interface {
	ID() string
	Kind() Kind
	Status() Status
	Close(ctx context.Context)
}

// entry pairs a session with the last time a caller looked it up.
type entry struct {
	session closer
	touched time.Time
}

// RegistryConfig holds the collaborators shared by every session the
// registry creates.
type RegistryConfig struct {
	Quizzes    generation.QuizGenerator
	Flashcards generation.FlashcardGenerator
	Streamer   generation.TurnStreamer
	Prompter   generation.TutorPrompter
	Emitter    events.EventEmitter
	Logger     *slog.Logger
	Greeting   bool

	// Now overrides the clock used for idle tracking. Defaults to time.Now.
	Now func() time.Time
}

// Registry keeps sessions for the life of the process, keyed by id.
type Registry struct {
	cfg RegistryConfig

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if cfg.Quizzes == nil || cfg.Flashcards == nil || cfg.Streamer == nil {
		return nil, fmt.Errorf("%w: registry needs quiz, flashcard and chat generators", generation.ErrInvalidConfig)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{cfg: cfg, sessions: make(map[string]*entry)}, nil
}

func (r *Registry) baseOptions(profile domain.UserProfile) []Option {
	return []Option{
		WithLogger(r.cfg.Logger),
		WithEmitter(r.cfg.Emitter),
		WithProfile(profile),
	}
}

// CreateQuiz registers a new quiz session.
func (r *Registry) CreateQuiz(ctx context.Context, profile domain.UserProfile) (*QuizSession, error) {
	s, err := NewQuizSession(r.cfg.Quizzes, r.baseOptions(profile)...)
	if err != nil {
		return nil, err
	}
	r.add(ctx, s)
	return s, nil
}

// CreateFlashcards registers a new flashcard session.
func (r *Registry) CreateFlashcards(ctx context.Context, profile domain.UserProfile) (*FlashcardSession, error) {
	s, err := NewFlashcardSession(r.cfg.Flashcards, r.baseOptions(profile)...)
	if err != nil {
		return nil, err
	}
	r.add(ctx, s)
	return s, nil
}

// CreateChat registers a new chat session.
func (r *Registry) CreateChat(ctx context.Context, profile domain.UserProfile) (*ChatSession, error) {
	opts := append(r.baseOptions(profile),
		WithPrompter(r.cfg.Prompter),
		WithGreeting(r.cfg.Greeting),
	)
	s, err := NewChatSession(r.cfg.Streamer, opts...)
	if err != nil {
		return nil, err
	}
	r.add(ctx, s)
	return s, nil
}

func (r *Registry) add(ctx context.Context, s closer) {
	r.mu.Lock()
	r.sessions[s.ID()] = &entry{session: s, touched: r.cfg.Now()}
	count := len(r.sessions)
	r.mu.Unlock()

	r.cfg.Logger.DebugContext(ctx, "session created",
		"session_id", s.ID(),
		"session_kind", string(s.Kind()),
		"session_count", count)

	if r.cfg.Emitter == nil {
		return
	}
	event, err := events.NewSessionEvent(s.ID(), string(s.Kind()), events.TypeSessionCreated,
		string(StatusIdle), string(StatusIdle), nil)
	if err == nil {
		_ = r.cfg.Emitter.EmitEvent(ctx, event)
	}
}

// Quiz returns the quiz session with id.
func (r *Registry) Quiz(id string) (*QuizSession, error) {
	return lookup[*QuizSession](r, id)
}

// Flashcards returns the flashcard session with id.
func (r *Registry) Flashcards(id string) (*FlashcardSession, error) {
	return lookup[*FlashcardSession](r, id)
}

// Chat returns the chat session with id.
func (r *Registry) Chat(id string) (*ChatSession, error) {
	return lookup[*ChatSession](r, id)
}

// lookup returns the session with id if it has kind T, and marks it as
// used.
func lookup[T closer](r *Registry, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	e, ok := r.sessions[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	typed, match := e.session.(T)
	if !match {
		return zero, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.touched = r.cfg.Now()
	return typed, nil
}

// Touch marks the session with id as used so the sweeper leaves it alone.
// Long-lived connections call it on every client message.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.touched = r.cfg.Now()
	}
}

// Remove closes and forgets the session with id.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.session.Close(ctx)
	return nil
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll closes and forgets every session.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.session.Close(ctx)
	}
}
