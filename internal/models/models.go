package models

import "strings"

// LeaderboardEntry is one finished quiz result. The persisted leaderboard is
// the full array of entries, kept sorted by score descending. Names are not
// deduplicated; every completed session appends.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Streak tracks consecutive days of app usage. LastActiveDate is a local
// calendar date in ISO form (2006-01-02); time of day is never stored.
type Streak struct {
	Count          int    `json:"streak_count"`
	LastActiveDate string `json:"last_active_date"`
}

// Preferences holds the handful of UI flags the app persists between runs.
type Preferences struct {
	PlayerName       string `json:"player_name"`
	DarkMode         bool   `json:"dark_mode"`
	InstructionsSeen bool   `json:"instructions_seen"`
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
