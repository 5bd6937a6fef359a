package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// QuizHandler serves the quiz session routes.
type QuizHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(registry *session.Registry, logger *slog.Logger) *QuizHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for QuizHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "quiz_handler")),
	}
}

// Create handles POST /quiz-sessions.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if !decodeOptional(w, r, &req, log) {
		return
	}
	var profile domain.UserProfile
	if req.Profile != nil {
		profile = *req.Profile
	}

	s, err := h.registry.CreateQuiz(r.Context(), profile)
	if err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	log.Debug("quiz session created", slog.String("session_id", s.ID()))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponse{
		ID:     s.ID(),
		Kind:   s.Kind(),
		Status: s.Status(),
	})
}

// Get handles GET /quiz-sessions/{id}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Generate handles POST /quiz-sessions/{id}/generate. It blocks until the
// questions are ready or generation fails.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req GenerateQuizRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid difficulty: invalid value")
		return
	}

	if err := s.Generate(r.Context(), req.Topic, difficulty); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Answer handles POST /quiz-sessions/{id}/answers.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req SelectAnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	if err := s.Select(*req.Option); err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Advance handles POST /quiz-sessions/{id}/advance.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	completed, err := s.Advance(r.Context())
	if err != nil {
		respondWithSessionError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AdvanceResponse[session.QuizView]{
		Completed: completed,
		Session:   s.View(),
	})
}

// Reset handles POST /quiz-sessions/{id}/reset.
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.Reset(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, s.View())
}

// Acknowledge handles POST /quiz-sessions/{id}/acknowledge.
func (h *QuizHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
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

// Delete handles DELETE /quiz-sessions/{id}.
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *QuizHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.QuizSession, bool) {
	id, err := getPathID(r)
	if err != nil {
		respondWithSessionError(w, r, err)
		return nil, false
	}
	s, err := h.registry.Quiz(id)
	if err != nil {
		respondWithSessionError(w, r, err)
		return nil, false
	}
	return s, true
}
