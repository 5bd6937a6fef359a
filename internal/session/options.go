package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/domain/srs"
	"github.com/phrazzld/scry-tutor/internal/events"
	"github.com/phrazzld/scry-tutor/internal/generation"
)

type options struct {
	id       string
	logger   *slog.Logger
	emitter  events.EventEmitter
	clock    func() time.Time
	profile  domain.UserProfile
	srs      srs.Service
	prompter generation.TutorPrompter
	greeting bool
}

// Option configures a session.
type Option func(*options)

// WithID sets the session id. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEmitter publishes every transition to emitter.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(o *options) { o.emitter = emitter }
}

// WithClock replaces time.Now, for the quiz timer.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithProfile supplies the learner profile used to parameterize prompts.
func WithProfile(profile domain.UserProfile) Option {
	return func(o *options) { o.profile = profile }
}

// WithReviewService replaces the flashcard mastery calculator.
func WithReviewService(svc srs.Service) Option {
	return func(o *options) {
		if svc != nil {
			o.srs = svc
		}
	}
}

// WithPrompter supplies the tutor's greeting and file analysis texts.
func WithPrompter(p generation.TutorPrompter) Option {
	return func(o *options) { o.prompter = p }
}

// WithGreeting seeds a chat session with a welcome model turn whenever a
// non-empty profile is known and the history is empty. Requires a prompter.
func WithGreeting(enabled bool) Option {
	return func(o *options) { o.greeting = enabled }
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		clock:  time.Now,
		srs:    srs.NewDefaultService(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return o
}
