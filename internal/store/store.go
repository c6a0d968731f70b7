package store

import "context"

// Keys of the persisted records. Each value is a single JSON document that is
// read and rewritten in full; nothing enforces relationships between keys.
const (
	KeyFlashcards       = "flashcards"
	KeyLeaderboard      = "leaderboard"
	KeyStreak           = "streak"
	KeyLastActiveDate   = "lastActiveDate"
	KeyDarkMode         = "darkMode"
	KeyPlayerName       = "playerName"
	KeyInstructionsSeen = "instructionsSeen"
)

// KV is the narrow persistence interface the rest of the app goes through.
// Components never touch the backing storage directly; everything flows
// through typed accessors on Records built over this.
type KV interface {
	// Get returns the stored value for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
