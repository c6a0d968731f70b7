package api

import (
	"net/http"
	"time"

	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/models"
)

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	st, err := s.Streak.Current(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// handleStreakTouch is called once per app load by the client.
func (s *Server) handleStreakTouch(w http.ResponseWriter, r *http.Request) {
	st, err := s.Streak.Touch(r.Context(), time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.Records.Preferences(r.Context())
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Records.SavePreferences(r.Context(), prefs); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}
