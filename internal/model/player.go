package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// BaselineRating is the rating every player starts a session with
const BaselineRating = 1200

// Player is a session participant. Players are owned by their session.
type Player struct {
	ID           PlayerID
	Username     string
	Score        int
	Rating       int
	IsHost       bool
	IsReady      bool
	AttendeeRef  string // opaque, issued by the meeting provider
	Achievements []Achievement
	RoundStats   []RoundStat
	JoinedAt     time.Time
	LastActive   time.Time
}

// Candidate is the identity a caller supplies when joining or creating a session
type Candidate struct {
	ID       PlayerID
	Username string
}

// RoundStat records one player's outcome for one round
type RoundStat struct {
	RoundNumber  int
	Score        int
	Word         string
	TimeToAnswer float64 // seconds
	IsCorrect    bool
	Bonuses      Bonuses
}

// Bonuses breaks a round score into its parts
type Bonuses struct {
	TimeBonus       int
	StreakBonus     int
	DifficultyBonus int
}

// HasAchievement reports whether the player already unlocked the achievement
func (p *Player) HasAchievement(id AchievementID) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// AnsweredRound reports whether the player has an outcome recorded for round
func (p *Player) AnsweredRound(round int) bool {
	for _, s := range p.RoundStats {
		if s.RoundNumber == round {
			return true
		}
	}
	return false
}

// PlayerStats is a player's career record across completed sessions
type PlayerStats struct {
	PlayerID    PlayerID
	Username    string
	GamesPlayed int
	GamesWon    int
	TotalScore  int
	Rating      int
	UpdatedAt   time.Time
}

// PlayerResult is one player's outcome of a completed session
type PlayerResult struct {
	PlayerID  PlayerID
	Username  string
	Score     int
	Rating    int
	Won       bool
	SessionID SessionID
	At        time.Time
}
