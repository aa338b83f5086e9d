package model

import "fmt"

// Difficulty selects word hardness and the score multiplier
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
)

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// ScoringConfig holds the per-session scoring coefficients
type ScoringConfig struct {
	BasePoints  int
	TimeBonus   int
	StreakBonus int
}

// Settings are fixed when a session is created
type Settings struct {
	MaxPlayers    int
	RoundDuration int // seconds
	Difficulty    Difficulty
	TotalRounds   int
	Scoring       ScoringConfig
}

// Settings bounds
const (
	MinPlayersLimit       = 2
	MaxPlayersLimit       = 8
	MinRoundDuration      = 30
	MaxRoundDuration      = 300
	MaxTotalRounds        = 20
	MinPlayersToStartGame = 2
)

// DefaultSettings returns the settings used when a creator overrides nothing
func DefaultSettings() Settings {
	return Settings{
		MaxPlayers:    4,
		RoundDuration: 60,
		Difficulty:    DifficultyMedium,
		TotalRounds:   10,
		Scoring: ScoringConfig{
			BasePoints:  100,
			TimeBonus:   50,
			StreakBonus: 20,
		},
	}
}

// SettingsOverride carries the fields a creator chose to change.
// Nil fields keep their default.
type SettingsOverride struct {
	MaxPlayers    *int
	RoundDuration *int
	Difficulty    *Difficulty
	TotalRounds   *int
	BasePoints    *int
	TimeBonus     *int
	StreakBonus   *int
}

// Apply merges the override onto base and validates the result
func (o SettingsOverride) Apply(base Settings) (Settings, error) {
	s := base
	if o.MaxPlayers != nil {
		s.MaxPlayers = *o.MaxPlayers
	}
	if o.RoundDuration != nil {
		s.RoundDuration = *o.RoundDuration
	}
	if o.Difficulty != nil {
		s.Difficulty = *o.Difficulty
	}
	if o.TotalRounds != nil {
		s.TotalRounds = *o.TotalRounds
	}
	if o.BasePoints != nil {
		s.Scoring.BasePoints = *o.BasePoints
	}
	if o.TimeBonus != nil {
		s.Scoring.TimeBonus = *o.TimeBonus
	}
	if o.StreakBonus != nil {
		s.Scoring.StreakBonus = *o.StreakBonus
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every field is within its allowed range
func (s Settings) Validate() error {
	switch {
	case s.MaxPlayers < MinPlayersLimit || s.MaxPlayers > MaxPlayersLimit:
		return fmt.Errorf("%w: max players must be between %d and %d", ErrInvalidSettings, MinPlayersLimit, MaxPlayersLimit)
	case s.RoundDuration < MinRoundDuration || s.RoundDuration > MaxRoundDuration:
		return fmt.Errorf("%w: round duration must be between %d and %d seconds", ErrInvalidSettings, MinRoundDuration, MaxRoundDuration)
	case s.TotalRounds < 1 || s.TotalRounds > MaxTotalRounds:
		return fmt.Errorf("%w: total rounds must be between 1 and %d", ErrInvalidSettings, MaxTotalRounds)
	case !s.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, s.Difficulty)
	case s.Scoring.BasePoints < 0 || s.Scoring.TimeBonus < 0 || s.Scoring.StreakBonus < 0:
		return fmt.Errorf("%w: scoring coefficients must not be negative", ErrInvalidSettings)
	}
	return nil
}
