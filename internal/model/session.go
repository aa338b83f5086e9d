package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// SessionState represents where a session is in its lifecycle
type SessionState string

const (
	StateLobby           SessionState = "LOBBY"
	StateRoundStarting   SessionState = "ROUND_STARTING"
	StateRoundInProgress SessionState = "ROUND_IN_PROGRESS"
	StateRoundEnded      SessionState = "ROUND_ENDED"
	StateCompleted       SessionState = "COMPLETED"
)

// Valid reports whether s is a known state
func (s SessionState) Valid() bool {
	switch s {
	case StateLobby, StateRoundStarting, StateRoundInProgress, StateRoundEnded, StateCompleted:
		return true
	}
	return false
}

// Session is the aggregate root for one game
type Session struct {
	ID             SessionID
	Name           string
	State          SessionState
	HostID         PlayerID // empty when the roster is empty
	Players        []Player // join order
	Settings       Settings
	CurrentRound   int
	CurrentWord    string // empty outside an active or just-ended round
	CurrentClue    WordClue
	RoundStartTime *time.Time
	RoundEndTime   *time.Time
	MeetingRef     string
	Version        int64 // stamped by storage on every save
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WordClue is what players are told about the word they must spell
type WordClue struct {
	PartOfSpeech string
	Definition   string
}

// GetPlayer returns the player with the given ID, or nil if not found
func (s *Session) GetPlayer(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// GetHost returns the current host, or nil if none
func (s *Session) GetHost() *Player {
	for i := range s.Players {
		if s.Players[i].IsHost {
			return &s.Players[i]
		}
	}
	return nil
}

// IsFinalRound reports whether the current round is the last one
func (s *Session) IsFinalRound() bool {
	return s.CurrentRound == s.Settings.TotalRounds
}

// Clone returns a deep copy so transitions never share state with their input
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.RoundStartTime = cloneTime(s.RoundStartTime)
	c.RoundEndTime = cloneTime(s.RoundEndTime)
	if s.Players != nil {
		c.Players = make([]Player, len(s.Players))
		for i, p := range s.Players {
			cp := p
			if p.Achievements != nil {
				cp.Achievements = append([]Achievement(nil), p.Achievements...)
			}
			if p.RoundStats != nil {
				cp.RoundStats = append([]RoundStat(nil), p.RoundStats...)
			}
			c.Players[i] = cp
		}
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
