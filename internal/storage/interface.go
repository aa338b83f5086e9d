package storage

import (
	"context"

	"github.com/mcoot/spellgame/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations

	// GetSession returns model.ErrGameNotFound if the session does not exist
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	// SaveSession writes next only if the stored session is still the one
	// prev was loaded from, and returns model.ErrConflict otherwise. A nil
	// prev creates the session. On success next.Version holds the new version.
	SaveSession(ctx context.Context, prev, next *model.Session) error
	DeleteSession(ctx context.Context, id model.SessionID) error
	// ListSessions returns sessions in the given state, oldest first
	ListSessions(ctx context.Context, state model.SessionState) ([]*model.Session, error)

	// Player stats operations

	// RecordResult folds one completed-session result into the player's stats
	RecordResult(ctx context.Context, result model.PlayerResult) error
	// GetPlayerStats returns model.ErrStatsNotFound for players with no results
	GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error)
}

// CheckSave validates the arguments of a SaveSession call
func CheckSave(prev, next *model.Session) error {
	if next == nil || next.ID == "" {
		return ErrInvalidSession
	}
	if prev != nil && prev.ID != next.ID {
		return ErrInvalidSession
	}
	return nil
}

// NextVersion returns the version a save of prev's successor gets
func NextVersion(prev *model.Session) int64 {
	if prev == nil {
		return 1
	}
	return prev.Version + 1
}
