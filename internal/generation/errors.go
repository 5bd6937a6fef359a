package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when a structured request to the model
	// fails outright. No retry is attempted.
	ErrGenerationFailed = errors.New("failed to generate, try again")

	// ErrStreamInterrupted is returned when a streaming turn fails after zero
	// or more fragments were delivered.
	ErrStreamInterrupted = errors.New("response stream interrupted")

	// ErrValidationRejected is returned when input is refused locally,
	// before any request is made.
	ErrValidationRejected = errors.New("request rejected")

	// ErrExtractionEmpty is returned when a structured response produced no
	// usable records.
	ErrExtractionEmpty = errors.New("no results generated, try a different topic or text")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrStreamConsumed is returned when a one-shot fragment sequence is
	// iterated a second time.
	ErrStreamConsumed = errors.New("fragment stream already consumed")
)
