// Package roster manages the ordered players of a session.
//
// Every function returns a new session and leaves its input untouched.
package roster

import (
	"fmt"
	"time"

	"github.com/mcoot/spellgame/internal/model"
)

// AddPlayer appends candidate to the roster as a non-host, not-ready player
// with the baseline rating
func AddPlayer(s *model.Session, candidate model.Candidate, attendeeRef string, now time.Time) (*model.Session, error) {
	if s.State != model.StateLobby {
		return nil, fmt.Errorf("%w: cannot join a session in %s", model.ErrWrongPhase, s.State)
	}
	if len(s.Players) >= s.Settings.MaxPlayers {
		return nil, model.ErrRosterFull
	}
	if s.GetPlayer(candidate.ID) != nil {
		return nil, model.ErrDuplicatePlayer
	}

	next := s.Clone()
	next.Players = append(next.Players, model.Player{
		ID:          candidate.ID,
		Username:    candidate.Username,
		Rating:      model.BaselineRating,
		AttendeeRef: attendeeRef,
		JoinedAt:    now,
		LastActive:  now,
	})
	// The first player in an empty roster becomes host
	if len(next.Players) == 1 {
		next.Players[0].IsHost = true
		next.HostID = candidate.ID
	}
	next.UpdatedAt = now
	return next, nil
}

// RemovePlayer drops a player from the roster. If the host leaves, the
// earliest-joined remaining player becomes host.
func RemovePlayer(s *model.Session, playerID model.PlayerID, now time.Time) (*model.Session, error) {
	if s.State == model.StateCompleted {
		return nil, fmt.Errorf("%w: session is completed", model.ErrWrongPhase)
	}
	leaving := s.GetPlayer(playerID)
	if leaving == nil {
		return nil, model.ErrPlayerNotFound
	}
	wasHost := leaving.IsHost

	next := s.Clone()
	remaining := make([]model.Player, 0, len(next.Players)-1)
	for _, p := range next.Players {
		if p.ID != playerID {
			remaining = append(remaining, p)
		}
	}
	next.Players = remaining

	switch {
	case len(next.Players) == 0:
		next.HostID = ""
	case wasHost:
		next.Players[0].IsHost = true
		next.HostID = next.Players[0].ID
	}
	next.UpdatedAt = now
	return next, nil
}

// SetReady sets a player's ready flag. Setting the current value again only
// refreshes timestamps.
func SetReady(s *model.Session, playerID model.PlayerID, ready bool, now time.Time) (*model.Session, error) {
	if s.State != model.StateLobby {
		return nil, fmt.Errorf("%w: readiness can only change in the lobby", model.ErrWrongPhase)
	}
	if s.GetPlayer(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}

	next := s.Clone()
	p := next.GetPlayer(playerID)
	p.IsReady = ready
	p.LastActive = now
	next.UpdatedAt = now
	return next, nil
}

// AllReady reports whether every player in the roster is ready
func AllReady(s *model.Session) bool {
	for _, p := range s.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}
