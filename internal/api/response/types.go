package response

import (
	"time"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/services/scoring"
)

// Settings represents session settings
type Settings struct {
	MaxPlayers    int    `json:"max_players"`
	RoundDuration int    `json:"round_duration"`
	Difficulty    string `json:"difficulty"`
	TotalRounds   int    `json:"total_rounds"`
	BasePoints    int    `json:"base_points"`
	TimeBonus     int    `json:"time_bonus"`
	StreakBonus   int    `json:"streak_bonus"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings{
		MaxPlayers:    s.MaxPlayers,
		RoundDuration: s.RoundDuration,
		Difficulty:    string(s.Difficulty),
		TotalRounds:   s.TotalRounds,
		BasePoints:    s.Scoring.BasePoints,
		TimeBonus:     s.Scoring.TimeBonus,
		StreakBonus:   s.Scoring.StreakBonus,
	}
}

// Achievement represents an unlocked achievement
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

// RoundStat represents a player's result in one round
type RoundStat struct {
	RoundNumber     int     `json:"round_number"`
	Score           int     `json:"score"`
	Word            string  `json:"word"`
	TimeToAnswer    float64 `json:"time_to_answer"`
	IsCorrect       bool    `json:"is_correct"`
	TimeBonus       int     `json:"time_bonus"`
	StreakBonus     int     `json:"streak_bonus"`
	DifficultyBonus int     `json:"difficulty_bonus"`
}

// Player represents a roster entry
type Player struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Score        int           `json:"score"`
	Rating       int           `json:"rating"`
	IsHost       bool          `json:"is_host"`
	IsReady      bool          `json:"is_ready"`
	Achievements []Achievement `json:"achievements"`
	RoundStats   []RoundStat   `json:"round_stats"`
	JoinedAt     time.Time     `json:"joined_at"`
}

// PlayerFromModel converts model.Player
func PlayerFromModel(p model.Player) Player {
	achievements := make([]Achievement, len(p.Achievements))
	for i, a := range p.Achievements {
		achievements[i] = Achievement{
			ID:          string(a.ID),
			Name:        a.Name,
			Description: a.Description,
			EarnedAt:    a.EarnedAt,
		}
	}
	stats := make([]RoundStat, len(p.RoundStats))
	for i, rs := range p.RoundStats {
		stats[i] = RoundStat{
			RoundNumber:     rs.RoundNumber,
			Score:           rs.Score,
			Word:            rs.Word,
			TimeToAnswer:    rs.TimeToAnswer,
			IsCorrect:       rs.IsCorrect,
			TimeBonus:       rs.Bonuses.TimeBonus,
			StreakBonus:     rs.Bonuses.StreakBonus,
			DifficultyBonus: rs.Bonuses.DifficultyBonus,
		}
	}
	return Player{
		ID:           string(p.ID),
		Username:     p.Username,
		Score:        p.Score,
		Rating:       p.Rating,
		IsHost:       p.IsHost,
		IsReady:      p.IsReady,
		Achievements: achievements,
		RoundStats:   stats,
		JoinedAt:     p.JoinedAt,
	}
}

// Clue is the hint shown for the current word
type Clue struct {
	PartOfSpeech string `json:"part_of_speech,omitempty"`
	Definition   string `json:"definition,omitempty"`
}

// Session represents a session in API responses
type Session struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	State          string     `json:"state"`
	HostID         string     `json:"host_id"`
	Players        []Player   `json:"players"`
	Settings       Settings   `json:"settings"`
	CurrentRound   int        `json:"current_round"`
	CurrentWord    string     `json:"current_word,omitempty"`
	Clue           *Clue      `json:"clue,omitempty"`
	RoundStartTime *time.Time `json:"round_start_time,omitempty"`
	RoundEndTime   *time.Time `json:"round_end_time,omitempty"`
	Winner         string     `json:"winner,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SessionFromModel converts model.Session. The word being spelled is
// withheld while its round is open.
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}

	resp := Session{
		ID:             string(s.ID),
		Name:           s.Name,
		State:          string(s.State),
		HostID:         string(s.HostID),
		Players:        players,
		Settings:       SettingsFromModel(s.Settings),
		CurrentRound:   s.CurrentRound,
		RoundStartTime: s.RoundStartTime,
		RoundEndTime:   s.RoundEndTime,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.State != model.StateRoundInProgress {
		resp.CurrentWord = s.CurrentWord
	}
	if s.State == model.StateCompleted {
		if winner, ok := scoring.Winner(s.Players); ok {
			resp.Winner = string(winner)
		}
	}
	if s.CurrentClue != (model.WordClue{}) {
		resp.Clue = &Clue{
			PartOfSpeech: s.CurrentClue.PartOfSpeech,
			Definition:   s.CurrentClue.Definition,
		}
	}
	return resp
}

// SessionList is the response for listing sessions
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// SessionListFromModel converts a slice of sessions
func SessionListFromModel(sessions []*model.Session) SessionList {
	list := SessionList{Sessions: make([]Session, len(sessions))}
	for i, s := range sessions {
		list.Sessions[i] = SessionFromModel(s)
	}
	return list
}

// PlayerStats represents a player's career stats
type PlayerStats struct {
	PlayerID    string    `json:"player_id"`
	Username    string    `json:"username"`
	GamesPlayed int       `json:"games_played"`
	GamesWon    int       `json:"games_won"`
	TotalScore  int       `json:"total_score"`
	Rating      int       `json:"rating"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlayerStatsFromModel converts model.PlayerStats
func PlayerStatsFromModel(s *model.PlayerStats) PlayerStats {
	return PlayerStats{
		PlayerID:    string(s.PlayerID),
		Username:    s.Username,
		GamesPlayed: s.GamesPlayed,
		GamesWon:    s.GamesWon,
		TotalScore:  s.TotalScore,
		Rating:      s.Rating,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
