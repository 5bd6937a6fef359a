package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain value fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTopic is returned when a quiz is requested without a topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptySourceText is returned when flashcards are requested from empty text.
	ErrEmptySourceText = errors.New("source text cannot be empty")

	// ErrEmptyPrompt is returned when a chat turn has no text.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidDifficulty is returned for an unknown quiz difficulty.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidRole is returned for a chat role other than user or model.
	ErrInvalidRole = errors.New("invalid chat role")

	// ErrAnswerOutOfRange is returned when a question's correct answer does
	// not index into its options.
	ErrAnswerOutOfRange = errors.New("correct answer is not a valid option index")

	// ErrNoOptions is returned when a question carries no options.
	ErrNoOptions = errors.New("question has no options")

	// ErrDuplicateID is returned when two records in one set share an id.
	ErrDuplicateID = errors.New("duplicate id within set")
)

// ValidationError describes a failed check on a single field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
