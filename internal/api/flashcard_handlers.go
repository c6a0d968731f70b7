package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/models"
)

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	filter := models.CardFilter{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}

	cards, err := s.Collection.Filter(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var card models.Flashcard
	if err := decodeJSON(r, &card); err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.Collection.Upsert(r.Context(), card)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := flashcardID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var card models.Flashcard
	if err := decodeJSON(r, &card); err != nil {
		handleError(w, r, err)
		return
	}
	card.ID = id

	saved, err := s.Collection.Upsert(r.Context(), card)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := flashcardID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Collection.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Collection.Categories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Collection.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="flashcards.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read import payload"))
		return
	}

	count, err := s.Collection.Import(r.Context(), data)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("import completed: %d cards", count)
	respondJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func flashcardID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid flashcard ID")
	}
	return id, nil
}
