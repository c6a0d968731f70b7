package quiz

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tmarques/flashdeck/internal/collection"
	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/store"
)

// Config groups the gameplay constants.
type Config struct {
	QuestionSeconds  int
	PointsPerCorrect int
	AdvanceDelay     time.Duration
	// TickInterval is how often the countdown decrements; one second in
	// production, shortened in tests.
	TickInterval time.Duration
}

// StartRequest describes a new session: how answers are judged, which cards
// to quiz over, and who is playing.
type StartRequest struct {
	Mode       Mode
	PlayerName string
	Filter     models.CardFilter
}

// Manager creates and tracks live quiz sessions. Sessions are transient;
// nothing about them is persisted except the leaderboard entry written when
// one completes.
type Manager struct {
	collection *collection.Manager
	records    *store.Records
	cfg        Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(coll *collection.Manager, records *store.Records, cfg Config) *Manager {
	if cfg.QuestionSeconds <= 0 {
		cfg.QuestionSeconds = 10
	}
	if cfg.PointsPerCorrect <= 0 {
		cfg.PointsPerCorrect = 10
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Manager{
		collection: coll,
		records:    records,
		cfg:        cfg,
		sessions:   make(map[string]*Session),
	}
}

// Start builds the card sequence through the collection filter and begins a
// session. The player name comes from the request (and is persisted for next
// time) or from stored preferences; with neither, the session is refused so
// the caller can collect a name first.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*Session, error) {
	log := logger.FromContext(ctx)

	if req.Mode != ModeRecall && req.Mode != ModeChoice {
		return nil, errors.NewValidationError("mode", "must be recall or choice")
	}

	name, err := m.resolvePlayerName(ctx, req.PlayerName)
	if err != nil {
		return nil, err
	}

	cards, err := m.collection.Filter(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	if req.Mode == ModeChoice {
		cards = withOptions(cards)
		shuffle(cards)
	}
	if len(cards) == 0 {
		return nil, errors.NewValidationError("quiz", "no flashcards available for this quiz")
	}

	s := newSession(uuid.NewString(), req.Mode, cards, name, m.cfg, m.records)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.begin()
	log.Info("quiz started: session_id=%s, mode=%s, cards=%d, player=%s", s.ID, req.Mode, len(cards), name)
	return s, nil
}

// Get returns the live session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("quiz session", id)
	}
	return s, nil
}

// Close tears down the session with the given id and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return errors.NewNotFoundError("quiz session", id)
	}
	s.Close()
	return nil
}

// CloseAll tears down every live session; used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) resolvePlayerName(ctx context.Context, requested string) (string, error) {
	prefs, err := m.records.Preferences(ctx)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if requested != "" {
		if requested != prefs.PlayerName {
			prefs.PlayerName = requested
			if err := m.records.SavePreferences(ctx, prefs); err != nil {
				return "", errors.NewInternalError(err)
			}
		}
		return requested, nil
	}
	if prefs.PlayerName == "" {
		return "", errors.NewValidationError("player_name", "required before starting a quiz")
	}
	return prefs.PlayerName, nil
}

func withOptions(cards []models.Flashcard) []models.Flashcard {
	var out []models.Flashcard
	for _, card := range cards {
		if card.HasOptions() {
			out = append(out, card)
		}
	}
	return out
}

// shuffle is a uniform Fisher-Yates shuffle.
func shuffle(cards []models.Flashcard) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
