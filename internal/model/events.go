package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventPlayerJoined    EventType = "player_joined"
	EventPlayerLeft      EventType = "player_left"
	EventPlayerReady     EventType = "player_ready"
	EventGameStarted     EventType = "game_started"
	EventRoundStarted    EventType = "round_started"
	EventAnswerSubmitted EventType = "answer_submitted"
	EventRoundAdvanced   EventType = "round_advanced"
	EventGameCompleted   EventType = "game_completed"
)

// Event describes a change to a session, fanned out to its subscribers
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	PlayerID  PlayerID // empty when no single player triggered it
	State     SessionState
	Round     int
}
