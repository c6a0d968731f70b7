package api

import (
	"fmt"
	"net/http"

	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/store"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Records.Leaderboard(r.Context())
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleLeaderboardWatch streams a server-sent event whenever the leaderboard
// record is rewritten, so a display can refresh without polling.
func (s *Server) handleLeaderboardWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		handleError(w, r, errors.NewBadRequestError("streaming not supported"))
		return
	}

	events, cancel := s.Records.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log := logger.FromContext(r.Context())
	log.Debug("leaderboard watch opened")

	for {
		select {
		case <-r.Context().Done():
			log.Debug("leaderboard watch closed")
			return
		case key, open := <-events:
			if !open {
				return
			}
			if key != store.KeyLeaderboard {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", key)
			flusher.Flush()
		}
	}
}
