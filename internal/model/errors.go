package model

import "errors"

// Common errors used across the application
var (
	// Lookup errors
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrStatsNotFound  = errors.New("player stats not found")

	// Lifecycle errors
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrPlayersNotReady  = errors.New("not all players are ready")
	ErrAlreadyAnswered  = errors.New("player has already answered this round")

	// Roster errors
	ErrRosterFull      = errors.New("roster is full")
	ErrDuplicatePlayer = errors.New("player is already in session")

	// Settings errors
	ErrInvalidSettings = errors.New("invalid session settings")

	// Collaborator errors
	ErrTransientProvider = errors.New("transient provider error")
	ErrWordUnavailable   = errors.New("no word available")

	// Persistence errors
	ErrConflict = errors.New("session was modified concurrently")
)

// IsRetryable reports whether err is a provider failure worth retrying
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientProvider)
}
