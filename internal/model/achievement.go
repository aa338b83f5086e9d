package model

import "time"

// AchievementID identifies an unlockable achievement
type AchievementID string

const (
	AchievementFirstWin      AchievementID = "FIRST_WIN"
	AchievementSpeedDemon    AchievementID = "SPEED_DEMON"
	AchievementWinningStreak AchievementID = "WINNING_STREAK"
)

// Achievement is an unlocked achievement held by a player
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	EarnedAt    time.Time
}

var achievementCatalog = map[AchievementID]struct{ name, description string }{
	AchievementFirstWin:      {"First Victory", "Answer a word correctly"},
	AchievementSpeedDemon:    {"Speed Demon", "Answer correctly in under 5 seconds"},
	AchievementWinningStreak: {"On Fire", "Answer 5 words in a row correctly"},
}

// NewAchievement builds the achievement record for id, earned at the given time
func NewAchievement(id AchievementID, at time.Time) Achievement {
	meta := achievementCatalog[id]
	return Achievement{
		ID:          id,
		Name:        meta.name,
		Description: meta.description,
		EarnedAt:    at,
	}
}
