package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-tutor/internal/api"
	apiMiddleware "github.com/phrazzld/scry-tutor/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	handlers := api.Handlers{
		Quiz:       api.NewQuizHandler(app.registry, app.logger),
		Flashcards: api.NewFlashcardHandler(app.registry, app.logger),
		Tutor:      api.NewTutorHandler(app.registry, app.logger, app.config.Server.AllowedOrigins),
	}

	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, handlers)
	})

	r.Get("/health", api.HealthHandler(app.registry))

	return r
}
