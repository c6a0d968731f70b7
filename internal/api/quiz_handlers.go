package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/quiz"
)

type startQuizRequest struct {
	Mode       string `json:"mode"`
	PlayerName string `json:"player_name"`
	Search     string `json:"search"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Mode == "" {
		req.Mode = string(quiz.ModeRecall)
	}

	session, err := s.Quiz.Start(r.Context(), quiz.StartRequest{
		Mode:       quiz.Mode(req.Mode),
		PlayerName: req.PlayerName,
		Filter: models.CardFilter{
			Search:     req.Search,
			Category:   req.Category,
			Difficulty: req.Difficulty,
		},
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session.Snapshot())
}

func (s *Server) handleQuizState(w http.ResponseWriter, r *http.Request) {
	session, err := s.Quiz.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	session, err := s.Quiz.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req struct {
		Correct bool `json:"correct"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := session.Submit(req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleQuizChoice(w http.ResponseWriter, r *http.Request) {
	session, err := s.Quiz.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req struct {
		Option string `json:"option"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := session.Choose(req.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleQuizReveal(w http.ResponseWriter, r *http.Request) {
	session, err := s.Quiz.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := session.ToggleReveal()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEndQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.Quiz.Close(chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
