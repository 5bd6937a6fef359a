package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-tutor/internal/api/shared"
	"github.com/phrazzld/scry-tutor/internal/session"
)

// Handlers groups the route handlers mounted by RegisterRoutes.
type Handlers struct {
	Quiz       *QuizHandler
	Flashcards *FlashcardHandler
	Tutor      *TutorHandler
}

// RegisterRoutes mounts the session routes on r. Paths are relative; the
// caller decides the prefix.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Route("/quiz-sessions", func(r chi.Router) {
		r.Post("/", h.Quiz.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Quiz.Get)
			r.Delete("/", h.Quiz.Delete)
			r.Post("/generate", h.Quiz.Generate)
			r.Post("/answers", h.Quiz.Answer)
			r.Post("/advance", h.Quiz.Advance)
			r.Post("/reset", h.Quiz.Reset)
			r.Post("/acknowledge", h.Quiz.Acknowledge)
		})
	})

	r.Route("/flashcard-sessions", func(r chi.Router) {
		r.Post("/", h.Flashcards.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Flashcards.Get)
			r.Delete("/", h.Flashcards.Delete)
			r.Post("/generate", h.Flashcards.Generate)
			r.Post("/upload", h.Flashcards.Upload)
			r.Post("/advance", h.Flashcards.Advance)
			r.Post("/retreat", h.Flashcards.Retreat)
			r.Post("/flip", h.Flashcards.Flip)
			r.Post("/review", h.Flashcards.Review)
			r.Post("/reset", h.Flashcards.Reset)
			r.Post("/acknowledge", h.Flashcards.Acknowledge)
		})
	})

	r.Get("/tutor/ws", h.Tutor.ServeWS)
}

// HealthHandler reports liveness and the number of open sessions.
func HealthHandler(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:   "ok",
			Sessions: registry.Len(),
		})
	}
}
