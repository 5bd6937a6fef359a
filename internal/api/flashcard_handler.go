package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// MaxUploadBytes bounds flashcard source uploads.
const MaxUploadBytes = 5 << 20

// FlashcardHandler serves the flashcard session routes.
type FlashcardHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(registry *session.Registry, logger *slog.Logger) *FlashcardHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for FlashcardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "flashcard_handler")),
	}
}

// Create handles POST /flashcard-sessions.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if !decodeOptional(w, r, &req, log) {
		return
	}
	var profile domain.UserProfile
	if req.Profile != nil {
		profile = *req.Profile
	}

	s, err := h.registry.CreateFlashcards(r.Context(), profile)
	if err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	log.Debug("flashcard session created", slog.String("session_id", s.ID()))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponse{
		ID:     s.ID(),
		Kind:   s.Kind(),
		Status: s.Status(),
	})
}

// Get handles GET /flashcard-sessions/{id}.
func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Generate handles POST /flashcard-sessions/{id}/generate with pasted text.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req GenerateFlashcardsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	h.generate(w, r, s, req.Text)
}

// Upload handles POST /flashcard-sessions/{id}/upload. The multipart "file"
// part must be UTF-8 text; converting other document formats is left to
// the client.
func (h *FlashcardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+1<<10)
	file, header, err := r.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}
	if err != nil {
		log.Warn("missing upload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read file", err)
		return
	}
	if len(content) > MaxUploadBytes {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}
	if !utf8.Valid(content) {
		shared.RespondWithError(w, r, http.StatusUnsupportedMediaType, "Only text files are supported")
		return
	}

	log.Info("flashcard source uploaded",
		slog.Int("size_bytes", len(content)),
		slog.String("content_type", header.Header.Get("Content-Type")))
	h.generate(w, r, s, string(content))
}

func (h *FlashcardHandler) generate(w http.ResponseWriter, r *http.Request, s *session.FlashcardSession, text string) {
	if err := s.Generate(r.Context(), text); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Advance handles POST /flashcard-sessions/{id}/advance.
func (h *FlashcardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	completed, err := s.Advance(r.Context())
	if err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AdvanceResponse[session.FlashcardView]{
		Completed: completed,
		Session:   s.View(),
	})
}

// Retreat handles POST /flashcard-sessions/{id}/retreat.
func (h *FlashcardHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := s.Retreat(); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Flip handles POST /flashcard-sessions/{id}/flip.
func (h *FlashcardHandler) Flip(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if _, err := s.Flip(); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Review handles POST /flashcard-sessions/{id}/review.
func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	outcome, err := domain.ParseReviewOutcome(req.Outcome)
	if err != nil {
		respondWithSessionError(w, r, err)
		return
	}

	card, completed, err := s.Review(r.Context(), outcome)
	if err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		Card:      card,
		Completed: completed,
		Session:   s.View(),
	})
}

// Reset handles POST /flashcard-sessions/{id}/reset.
func (h *FlashcardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.Reset(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Acknowledge handles POST /flashcard-sessions/{id}/acknowledge.
func (h *FlashcardHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := s.Acknowledge(r.Context()); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Delete handles DELETE /flashcard-sessions/{id}.
func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.registry.Remove(r.Context(), s.ID()); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FlashcardHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.FlashcardSession, bool) {
	id, err := getPathID(r)
	if err != nil {
		respondWithSessionError(w, r, err)
		return nil, false
	}
	s, err := h.registry.Flashcards(id)
	if err != nil {
		respondWithSessionError(w, r, err)
		return nil, false
	}
	return s, true
}
