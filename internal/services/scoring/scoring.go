// Package scoring computes round scores, streaks, ratings and achievements.
// Every function here is deterministic and side-effect free.
package scoring

import (
	"math"
	"time"

	"github.com/mcoot/spellgame/internal/model"
)

const (
	// MaxStreakMultiplier caps how many streak steps earn a bonus
	MaxStreakMultiplier = 5

	// RatingK is the ELO K-factor
	RatingK = 32

	// SpeedDemonSeconds is the answer time below which SPEED_DEMON unlocks
	SpeedDemonSeconds = 5.0

	// WinningStreakLength is the streak length that unlocks WINNING_STREAK
	WinningStreakLength = 5
)

var multipliers = map[model.Difficulty]float64{
	model.DifficultyEasy:   1,
	model.DifficultyMedium: 1.5,
	model.DifficultyHard:   2,
	model.DifficultyExpert: 3,
}

// Multiplier returns the score multiplier for a difficulty. Unknown
// difficulties score as EASY.
func Multiplier(d model.Difficulty) float64 {
	if m, ok := multipliers[d]; ok {
		return m
	}
	return 1
}

// Answer describes a single submitted answer
type Answer struct {
	Correct        bool
	ElapsedSeconds float64
	Streak         int // correct answers in a row before this one
}

// Result is the score awarded for one answer
type Result struct {
	Score   int
	Bonuses model.Bonuses
}

// ScoreAnswer computes the score for an answer. Incorrect answers score zero.
func ScoreAnswer(a Answer, cfg model.ScoringConfig, difficulty model.Difficulty, roundDuration int) Result {
	if !a.Correct {
		return Result{}
	}

	timeBonus := 0
	if roundDuration > 0 {
		remaining := float64(roundDuration) - a.ElapsedSeconds
		timeBonus = max(0, int(math.Floor(float64(cfg.TimeBonus)*remaining/float64(roundDuration))))
	}

	streak := min(max(a.Streak, 0), MaxStreakMultiplier)
	streakBonus := cfg.StreakBonus * streak

	subtotal := cfg.BasePoints + timeBonus + streakBonus
	difficultyBonus := int(math.Floor(float64(subtotal) * (Multiplier(difficulty) - 1)))

	return Result{
		Score: subtotal + difficultyBonus,
		Bonuses: model.Bonuses{
			TimeBonus:       timeBonus,
			StreakBonus:     streakBonus,
			DifficultyBonus: difficultyBonus,
		},
	}
}

// CurrentStreak counts consecutive correct answers ending at the most recent one
func CurrentStreak(stats []model.RoundStat) int {
	streak := 0
	for i := len(stats) - 1; i >= 0; i-- {
		if !stats[i].IsCorrect {
			break
		}
		streak++
	}
	return streak
}

// UpdateRating returns the player's new rating after one pairwise comparison.
// A higher score counts as a win, an equal score as a draw.
func UpdateRating(rating, opponentRating, score, opponentScore int) int {
	actual := 0.0
	switch {
	case score > opponentScore:
		actual = 1
	case score == opponentScore:
		actual = 0.5
	}
	expected := 1 / (1 + math.Pow(10, float64(opponentRating-rating)/400))
	return int(math.Round(float64(rating) + RatingK*(actual-expected)))
}

// Opponent is the rating and score a player is compared against
type Opponent struct {
	Rating int
	Score  int
}

// FoldRatings applies UpdateRating against each opponent in turn, feeding
// each result into the next comparison.
func FoldRatings(rating, score int, opponents []Opponent) int {
	for _, o := range opponents {
		rating = UpdateRating(rating, o.Rating, score, o.Score)
	}
	return rating
}

// FinalRatings computes every player's end-of-game rating against all other
// players. Opponent ratings are taken from before any update, so the result
// does not depend on roster order.
func FinalRatings(players []model.Player) map[model.PlayerID]int {
	out := make(map[model.PlayerID]int, len(players))
	for i, p := range players {
		opponents := make([]Opponent, 0, len(players)-1)
		for j, o := range players {
			if i == j {
				continue
			}
			opponents = append(opponents, Opponent{Rating: o.Rating, Score: o.Score})
		}
		out[p.ID] = FoldRatings(p.Rating, p.Score, opponents)
	}
	return out
}

// EvaluateAchievements returns achievements the player's round history
// qualifies for but does not yet hold.
func EvaluateAchievements(p *model.Player, now time.Time) []model.Achievement {
	if len(p.RoundStats) == 0 {
		return nil
	}

	anyCorrect, anyFast := false, false
	for _, rs := range p.RoundStats {
		if !rs.IsCorrect {
			continue
		}
		anyCorrect = true
		if rs.TimeToAnswer < SpeedDemonSeconds {
			anyFast = true
		}
	}

	var unlocked []model.Achievement
	unlock := func(id model.AchievementID) {
		if !p.HasAchievement(id) {
			unlocked = append(unlocked, model.NewAchievement(id, now))
		}
	}

	if anyCorrect {
		unlock(model.AchievementFirstWin)
	}
	if anyFast {
		unlock(model.AchievementSpeedDemon)
	}
	if CurrentStreak(p.RoundStats) >= WinningStreakLength {
		unlock(model.AchievementWinningStreak)
	}
	return unlocked
}

// Winner returns the unique top scorer, or false when the top score is shared
// or there are no players.
func Winner(players []model.Player) (model.PlayerID, bool) {
	var best *model.Player
	tied := false
	for i := range players {
		p := &players[i]
		switch {
		case best == nil || p.Score > best.Score:
			best = p
			tied = false
		case p.Score == best.Score:
			tied = true
		}
	}
	if best == nil || tied {
		return "", false
	}
	return best.ID, true
}
