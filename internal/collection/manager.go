package collection

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/store"
)

// Manager owns the flashcard collection: upsert, delete, filtering, category
// listing, and JSON import/export. Every mutation reads the full collection
// from the record store and writes it back in full.
type Manager struct {
	records *store.Records
}

// NewManager creates a collection manager over the given record store.
func NewManager(records *store.Records) *Manager {
	return &Manager{records: records}
}

// List returns the whole collection in insertion order.
func (m *Manager) List(ctx context.Context) ([]models.Flashcard, error) {
	cards, err := m.records.Flashcards(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

// Filter returns the cards matching every predicate in the filter, preserving
// insertion order.
func (m *Manager) Filter(ctx context.Context, f models.CardFilter) ([]models.Flashcard, error) {
	cards, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.Flashcard
	for _, card := range cards {
		if f.Matches(card) {
			matched = append(matched, card)
		}
	}
	return matched, nil
}

// Get returns the card with the given id.
func (m *Manager) Get(ctx context.Context, id int64) (*models.Flashcard, error) {
	cards, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i], nil
		}
	}
	return nil, errors.NewNotFoundError("flashcard", id)
}

// Upsert validates and saves a card. A zero ID gets a fresh one; an ID that
// matches an existing card replaces it in place; anything else appends.
func (m *Manager) Upsert(ctx context.Context, card models.Flashcard) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(card.Question) == "" {
		return nil, errors.NewValidationError("question", "must not be empty")
	}
	if strings.TrimSpace(card.Answer) == "" {
		return nil, errors.NewValidationError("answer", "must not be empty")
	}
	switch card.Difficulty {
	case "", models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		return nil, errors.NewValidationError("difficulty", "must be Easy, Medium, or Hard")
	}
	if card.Category == "" {
		card.Category = models.DefaultCategory
	}

	cards, err := m.records.Flashcards(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if card.ID == 0 {
		card.ID = nextID(cards)
		card.CreatedAt = time.Now()
		cards = append(cards, card)
		log.Debug("flashcard created: id=%d, category=%s", card.ID, card.Category)
	} else if i := indexOf(cards, card.ID); i >= 0 {
		if card.CreatedAt.IsZero() {
			card.CreatedAt = cards[i].CreatedAt
		}
		cards[i] = card
		log.Debug("flashcard replaced: id=%d", card.ID)
	} else {
		if card.CreatedAt.IsZero() {
			card.CreatedAt = time.Now()
		}
		cards = append(cards, card)
		log.Debug("flashcard appended: id=%d", card.ID)
	}

	if err := m.records.SaveFlashcards(ctx, cards); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &card, nil
}

// Delete removes the card with the given id.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	cards, err := m.records.Flashcards(ctx)
	if err != nil {
		return errors.NewInternalError(err)
	}
	i := indexOf(cards, id)
	if i < 0 {
		return errors.NewNotFoundError("flashcard", id)
	}
	cards = append(cards[:i], cards[i+1:]...)
	if err := m.records.SaveFlashcards(ctx, cards); err != nil {
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Debug("flashcard deleted: id=%d", id)
	return nil
}

// Categories returns the distinct categories in first-seen order, prefixed
// with the "All" wildcard.
func (m *Manager) Categories(ctx context.Context) ([]string, error) {
	cards, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{models.FilterAll}
	seen := map[string]bool{}
	for _, card := range cards {
		if !seen[card.Category] {
			seen[card.Category] = true
			out = append(out, card.Category)
		}
	}
	return out, nil
}

// Export serializes the full collection as a pretty-printed JSON array.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	cards, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return data, nil
}

// Import parses a JSON flashcard array and replaces the entire collection.
// Malformed input fails with a validation error and leaves the stored
// collection untouched.
func (m *Manager) Import(ctx context.Context, data []byte) (int, error) {
	var cards []models.Flashcard
	if err := json.Unmarshal(data, &cards); err != nil {
		return 0, errors.NewValidationError("import", "payload is not a valid flashcard array")
	}
	if cards == nil && strings.TrimSpace(string(data)) != "[]" {
		return 0, errors.NewValidationError("import", "payload must be a JSON array")
	}
	if err := m.records.SaveFlashcards(ctx, cards); err != nil {
		return 0, errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("collection replaced by import: %d cards", len(cards))
	return len(cards), nil
}

func indexOf(cards []models.Flashcard, id int64) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID assigns ids from the wall clock in milliseconds, bumping past any
// collision so ids stay unique within the collection.
func nextID(cards []models.Flashcard) int64 {
	id := time.Now().UnixMilli()
	for indexOf(cards, id) >= 0 {
		id++
	}
	return id
}
