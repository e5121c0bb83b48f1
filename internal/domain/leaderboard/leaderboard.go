package leaderboard

import (
	"slices"

	"github.com/alphalever/backend/internal/domain/scoring"
)

// Entry is one scored user on the board.
type Entry struct {
	Rank   int
	UserID string
	Email  string
	Name   string
	Score  int
	Tier   scoring.Tier
}

// Rank orders entries by descending score. Equal scores keep their input
// order, so callers pass users in registration order. Rank is the 1-based
// position. The input slice is not modified.
func Rank(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.Score - a.Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Top returns the first limit entries; limit <= 0 means all.
func Top(ranked []Entry, limit int) []Entry {
	if limit <= 0 || limit >= len(ranked) {
		return ranked
	}
	return ranked[:limit]
}
