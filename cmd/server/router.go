package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/lms-api/internal/api"
	apiMiddleware "github.com/phrazzld/lms-api/internal/api/middleware"
	"github.com/phrazzld/lms-api/internal/config"
)

// handlers is everything the router mounts.
type handlers struct {
	auth       *api.AuthHandler
	catalog    *api.CatalogHandler
	progress   *api.ProgressHandler
	flashcards *api.FlashcardHandler
	authMW     *apiMiddleware.AuthMiddleware
}

// newRouter registers every route. Catalog reads are public; anything tied
// to a learner or an author sits behind the bearer token check.
func newRouter(h handlers, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.auth.Register)
		r.Post("/auth/login", h.auth.Login)
		r.Post("/auth/refresh", h.auth.Refresh)

		r.Get("/courses", h.catalog.ListCourses)
		r.Get("/courses/{id}", h.catalog.GetCourse)
		r.Get("/courses/{id}/lessons", h.catalog.ListLessons)
		r.Get("/lessons/{id}/exercises", h.catalog.ListExercises)
		r.Get("/paths/{id}", h.catalog.GetPath)

		r.Group(func(r chi.Router) {
			r.Use(h.authMW.Authenticate)

			r.Post("/courses", h.catalog.CreateCourse)
			r.Post("/courses/{id}/publish", h.catalog.PublishCourse)
			r.Post("/courses/{id}/lessons", h.catalog.CreateLesson)
			r.Post("/courses/{id}/enroll", h.catalog.Enroll)
			r.Get("/courses/{id}/progress", h.progress.CourseProgress)

			r.Post("/lessons/{id}/publish", h.catalog.PublishLesson)
			r.Post("/lessons/{id}/access", h.progress.AccessLesson)
			r.Post("/lessons/{id}/complete", h.progress.CompleteLesson)
			r.Post("/lessons/{id}/exercises", h.catalog.CreateExercise)

			r.Post("/exercises/{id}/score", h.progress.ScoreExercise)

			r.Post("/flashcards", h.flashcards.CreateFlashcard)
			r.Get("/flashcards/{id}", h.flashcards.GetFlashcard)
			r.Put("/flashcards/{id}", h.flashcards.UpdateFlashcard)
			r.Delete("/flashcards/{id}", h.flashcards.DeleteFlashcard)
			r.Post("/flashcards/{id}/review", h.flashcards.ReviewFlashcard)

			r.Get("/reviews/due", h.flashcards.DueReviews)
			r.Get("/reviews/stats", h.flashcards.ReviewStats)

			r.Get("/me/enrollments", h.progress.MyEnrollments)

			r.Post("/paths", h.catalog.CreatePath)
			r.Get("/paths/{id}/progress", h.progress.PathProgress)
		})
	})

	return r
}
