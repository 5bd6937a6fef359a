package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// MapErrorToStatusCode maps session and generation errors to HTTP status
// codes. Order matters: ErrInFlight is also a validation rejection.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, session.ErrSessionClosed):
		return http.StatusGone

	case errors.Is(err, session.ErrInFlight),
		errors.Is(err, session.ErrDiscarded),
		errors.Is(err, session.ErrNotReady),
		errors.Is(err, session.ErrQuizFinished),
		errors.Is(err, session.ErrNotFinished):
		return http.StatusConflict

	case errors.Is(err, generation.ErrValidationRejected),
		errors.Is(err, session.ErrOptionOutOfRange),
		errors.Is(err, domain.ErrInvalidReviewOutcome),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrExtractionEmpty),
		errors.Is(err, generation.ErrStreamInterrupted):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Internal
// details, including upstream error text, are never included.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, session.ErrSessionClosed):
		return "Session has been closed"
	case errors.Is(err, session.ErrInFlight):
		return "A request is already in progress"
	case errors.Is(err, session.ErrDiscarded):
		return "Request was superseded by a reset"
	case errors.Is(err, session.ErrNotReady):
		return "Nothing has been generated yet"
	case errors.Is(err, session.ErrQuizFinished):
		return "Quiz is already finished"
	case errors.Is(err, session.ErrNotFinished):
		return "Quiz is not finished"
	case errors.Is(err, session.ErrOptionOutOfRange):
		return "Option out of range"
	case errors.Is(err, domain.ErrInvalidReviewOutcome):
		return "Invalid review outcome"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	case errors.Is(err, generation.ErrValidationRejected):
		return "Invalid request"

	// Generation failures use the taxonomy's own wording.
	case errors.Is(err, generation.ErrExtractionEmpty):
		return generation.ErrExtractionEmpty.Error()
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by the content filter, try a different topic or text"
	case errors.Is(err, generation.ErrGenerationFailed):
		return generation.ErrGenerationFailed.Error()
	case errors.Is(err, generation.ErrStreamInterrupted):
		return "The response was interrupted, try again"

	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out, try again"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
