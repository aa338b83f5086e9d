package storage

import (
	"sort"

	"github.com/mcoot/spellgame/internal/model"
)

// SortSessions orders sessions oldest first, breaking ties by ID
func SortSessions(sessions []*model.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
}

// ApplyResult folds a completed-session result into stats
func ApplyResult(stats *model.PlayerStats, result model.PlayerResult) {
	stats.Username = result.Username
	stats.GamesPlayed++
	if result.Won {
		stats.GamesWon++
	}
	stats.TotalScore += result.Score
	stats.Rating = result.Rating
	stats.UpdatedAt = result.At
}
