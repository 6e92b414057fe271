package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fluentia/fluentia-api/internal/api"
	apiMiddleware "github.com/fluentia/fluentia-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", progressHandler.ListProgress)
				r.Post("/start/{learningPathID}", progressHandler.StartPath)

				r.Route("/{learningPathID}", func(r chi.Router) {
					r.Get("/", progressHandler.GetProgress)
					r.Get("/stats", progressHandler.GetStats)
					r.Post("/lessons", progressHandler.CompleteLesson)
					r.Post("/assessments", progressHandler.SubmitAssessment)
					r.Post("/vocabulary", progressHandler.AddWord)
					r.Post("/vocabulary/review", progressHandler.ReviewWord)
					r.Get("/vocabulary/due", progressHandler.DueWords)
				})
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
