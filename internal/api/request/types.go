package request

import "github.com/mcoot/spellgame/internal/model"

// SettingsRequest carries the settings a creator wants to change. Omitted
// fields keep their defaults.
type SettingsRequest struct {
	MaxPlayers    *int    `json:"max_players,omitempty"`
	RoundDuration *int    `json:"round_duration,omitempty"`
	Difficulty    *string `json:"difficulty,omitempty"`
	TotalRounds   *int    `json:"total_rounds,omitempty"`
	BasePoints    *int    `json:"base_points,omitempty"`
	TimeBonus     *int    `json:"time_bonus,omitempty"`
	StreakBonus   *int    `json:"streak_bonus,omitempty"`
}

// Override converts the request into a model override
func (s *SettingsRequest) Override() model.SettingsOverride {
	if s == nil {
		return model.SettingsOverride{}
	}
	o := model.SettingsOverride{
		MaxPlayers:    s.MaxPlayers,
		RoundDuration: s.RoundDuration,
		TotalRounds:   s.TotalRounds,
		BasePoints:    s.BasePoints,
		TimeBonus:     s.TimeBonus,
		StreakBonus:   s.StreakBonus,
	}
	if s.Difficulty != nil {
		d := model.Difficulty(*s.Difficulty)
		o.Difficulty = &d
	}
	return o
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name     string           `json:"name,omitempty"`
	Settings *SettingsRequest `json:"settings,omitempty"`
}

// ReadyRequest is the request body for changing readiness
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	Answer string `json:"answer"`
}
