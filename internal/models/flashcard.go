package models

import "time"

// Difficulty labels a flashcard can carry. An empty difficulty means the card
// was created without one and matches only the wildcard filter.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// FilterAll is the wildcard value that disables filtering on a field.
const FilterAll = "All"

// DefaultCategory is assigned to cards saved without a category.
const DefaultCategory = "General"

type Flashcard struct {
	ID         int64     `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty,omitempty"`
	Options    []string  `json:"options,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasOptions reports whether the card can appear in a multiple-choice quiz.
func (f Flashcard) HasOptions() bool {
	return len(f.Options) > 0
}

// CardFilter narrows a collection listing. Empty fields and the "All"
// wildcard both mean "no filtering on this field".
type CardFilter struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Matches reports whether the card passes every predicate in the filter.
// The search term is a case-insensitive substring match on the question.
func (f CardFilter) Matches(card Flashcard) bool {
	if f.Search != "" && !containsFold(card.Question, f.Search) {
		return false
	}
	if f.Category != "" && f.Category != FilterAll && card.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && f.Difficulty != FilterAll && card.Difficulty != f.Difficulty {
		return false
	}
	return true
}
