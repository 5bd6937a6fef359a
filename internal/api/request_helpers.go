package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// getPathID extracts and normalizes the session id path parameter.
func getPathID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return "", domain.NewValidationError("id", "is required", domain.ErrValidation)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", domain.NewValidationError("id", "has invalid format", domain.ErrValidation)
	}
	return id.String(), nil
}

// decodeAndValidate decodes the JSON body into v and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any, log *slog.Logger) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		msg := "Invalid request format"
		if errors.Is(err, shared.ErrEmptyBody) {
			msg = GetSafeErrorMessage(err)
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, msg)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		log.Warn("request validation failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}

// decodeOptional decodes an optional JSON body. An empty body leaves v
// untouched.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any, log *slog.Logger) bool {
	err := shared.DecodeJSON(w, r, v)
	if err == nil || errors.Is(err, shared.ErrEmptyBody) {
		return true
	}
	log.Warn("invalid request format", slog.String("error", err.Error()))
	shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
	return false
}

// respondWithSessionError maps err to a status and a safe message.
func respondWithSessionError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
