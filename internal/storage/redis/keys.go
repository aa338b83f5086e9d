package redis

import (
	"fmt"

	"github.com/mcoot/spellgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "spella"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// stateIndexKey returns the Redis key for the SET of session IDs in a state
func stateIndexKey(state model.SessionState) string {
	return fmt.Sprintf("%s:idx:sessions_by_state:%s", keyPrefix, state)
}

// statsKey returns the Redis key for the HASH of a player's career stats
func statsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// Hash fields of a stats key
const (
	fieldUsername    = "username"
	fieldGamesPlayed = "games_played"
	fieldGamesWon    = "games_won"
	fieldTotalScore  = "total_score"
	fieldRating      = "rating"
	fieldUpdatedAt   = "updated_at"
)

var allStates = []model.SessionState{
	model.StateLobby,
	model.StateRoundStarting,
	model.StateRoundInProgress,
	model.StateRoundEnded,
	model.StateCompleted,
}
