package session

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-tutor/internal/generation"
)

var (
	// ErrSessionClosed is returned by every mutator after Close.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionNotFound is returned by the registry for an unknown id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInFlight is returned when a submission arrives while a request is
	// already running. It is a validation rejection.
	ErrInFlight = fmt.Errorf("%w: a request is already in flight", generation.ErrValidationRejected)

	// ErrNotReady is returned by navigation and review operations when no
	// set is active.
	ErrNotReady = errors.New("session has no active set")

	// ErrOptionOutOfRange is returned when a selected option does not index
	// into the current question's options.
	ErrOptionOutOfRange = errors.New("option out of range")

	// ErrQuizFinished is returned when an answer is selected after the quiz
	// has been completed.
	ErrQuizFinished = errors.New("quiz already finished")

	// ErrNotFinished is returned when a score is requested before the quiz
	// reaches the end of its set.
	ErrNotFinished = errors.New("quiz not finished")

	// ErrDiscarded is returned to the caller whose result arrived after a
	// Reset replaced the request it belonged to.
	ErrDiscarded = errors.New("result discarded after reset")
)

// rejected wraps a local input failure as a validation rejection.
func rejected(err error) error {
	return fmt.Errorf("%w: %w", generation.ErrValidationRejected, err)
}
