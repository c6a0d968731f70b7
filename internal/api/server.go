package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarques/flashdeck/internal/collection"
	"github.com/tmarques/flashdeck/internal/quiz"
	"github.com/tmarques/flashdeck/internal/store"
	"github.com/tmarques/flashdeck/internal/streak"
)

// Server wires the HTTP surface to the application services.
type Server struct {
	Collection *collection.Manager
	Quiz       *quiz.Manager
	Streak     *streak.Tracker
	Records    *store.Records
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/flashcards", s.handleListFlashcards)
		r.Post("/flashcards", s.handleCreateFlashcard)
		r.Get("/flashcards/export", s.handleExport)
		r.Post("/flashcards/import", s.handleImport)
		r.Put("/flashcards/{id}", s.handleUpdateFlashcard)
		r.Delete("/flashcards/{id}", s.handleDeleteFlashcard)
		r.Get("/categories", s.handleCategories)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard/watch", s.handleLeaderboardWatch)

		r.Get("/streak", s.handleStreak)
		r.Post("/streak", s.handleStreakTouch)
		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handlePutPreferences)

		r.Post("/quiz", s.handleStartQuiz)
		r.Get("/quiz/{id}", s.handleQuizState)
		r.Post("/quiz/{id}/answer", s.handleQuizAnswer)
		r.Post("/quiz/{id}/choice", s.handleQuizChoice)
		r.Post("/quiz/{id}/reveal", s.handleQuizReveal)
		r.Delete("/quiz/{id}", s.handleEndQuiz)
	})

	return r
}
