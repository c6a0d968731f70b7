package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/tmarques/flashdeck/internal/models"
)

// Records exposes the persisted records as typed get/set pairs over a KV
// backend. A record that has never been written reads as its zero value.
// Every successful write publishes the record key to subscribers so views
// (the leaderboard table in particular) can refresh when another part of the
// app rewrites a record.
type Records struct {
	kv KV

	mu   sync.Mutex
	subs map[int]chan string
	next int
}

// NewRecords wraps a KV backend in typed record accessors.
func NewRecords(kv KV) *Records {
	return &Records{
		kv:   kv,
		subs: make(map[int]chan string),
	}
}

// Subscribe registers for record-change notifications. The returned channel
// receives the key of every record written until cancel is called. Slow
// consumers miss events rather than block writers.
func (r *Records) Subscribe() (<-chan string, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	ch := make(chan string, 16)
	r.subs[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (r *Records) notify(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- key:
		default:
		}
	}
}

func (r *Records) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Records) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	r.notify(key)
	return nil
}

// Flashcards returns the stored collection in insertion order. An absent
// record reads as an empty collection.
func (r *Records) Flashcards(ctx context.Context) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if _, err := r.getJSON(ctx, KeyFlashcards, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// SaveFlashcards replaces the whole collection.
func (r *Records) SaveFlashcards(ctx context.Context, cards []models.Flashcard) error {
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return r.setJSON(ctx, KeyFlashcards, cards)
}

// Leaderboard returns the stored leaderboard sorted by score descending.
// Any order on disk is tolerated; the sort happens on every read.
func (r *Records) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if _, err := r.getJSON(ctx, KeyLeaderboard, &entries); err != nil {
		return nil, err
	}
	sortLeaderboard(entries)
	return entries, nil
}

// AppendLeaderboard adds one entry, re-sorts the whole board by score
// descending, persists it, and returns the new order. This is a full-value
// read-modify-write; the store has exactly one writer at a time.
func (r *Records) AppendLeaderboard(ctx context.Context, entry models.LeaderboardEntry) ([]models.LeaderboardEntry, error) {
	entries, err := r.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	sortLeaderboard(entries)
	if err := r.setJSON(ctx, KeyLeaderboard, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func sortLeaderboard(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// Streak reads the streak counter and its last-active date. Either key may
// be absent independently.
func (r *Records) Streak(ctx context.Context) (models.Streak, error) {
	var st models.Streak
	if _, err := r.getJSON(ctx, KeyStreak, &st.Count); err != nil {
		return models.Streak{}, err
	}
	if _, err := r.getJSON(ctx, KeyLastActiveDate, &st.LastActiveDate); err != nil {
		return models.Streak{}, err
	}
	return st, nil
}

// SaveStreak persists the streak counter and last-active date.
func (r *Records) SaveStreak(ctx context.Context, st models.Streak) error {
	if err := r.setJSON(ctx, KeyStreak, st.Count); err != nil {
		return err
	}
	return r.setJSON(ctx, KeyLastActiveDate, st.LastActiveDate)
}

// Preferences reads the persisted UI flags. Absent keys read as zero values.
func (r *Records) Preferences(ctx context.Context) (models.Preferences, error) {
	var p models.Preferences
	if _, err := r.getJSON(ctx, KeyPlayerName, &p.PlayerName); err != nil {
		return models.Preferences{}, err
	}
	if _, err := r.getJSON(ctx, KeyDarkMode, &p.DarkMode); err != nil {
		return models.Preferences{}, err
	}
	if _, err := r.getJSON(ctx, KeyInstructionsSeen, &p.InstructionsSeen); err != nil {
		return models.Preferences{}, err
	}
	return p, nil
}

// SavePreferences persists the UI flags.
func (r *Records) SavePreferences(ctx context.Context, p models.Preferences) error {
	if err := r.setJSON(ctx, KeyPlayerName, p.PlayerName); err != nil {
		return err
	}
	if err := r.setJSON(ctx, KeyDarkMode, p.DarkMode); err != nil {
		return err
	}
	return r.setJSON(ctx, KeyInstructionsSeen, p.InstructionsSeen)
}
