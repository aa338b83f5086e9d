package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/spellgame/internal/model"
)

// EventPayload is the JSON body of a session event
type EventPayload struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	State     string    `json:"state"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster publishes session events to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends e to everyone watching its session. Sessions nobody is
// watching are skipped.
func (b *Broadcaster) Publish(e model.Event) {
	hub := b.hubManager.GetHub(e.SessionID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(EventPayload{
		Type:      string(e.Type),
		SessionID: string(e.SessionID),
		PlayerID:  string(e.PlayerID),
		State:     string(e.State),
		Round:     e.Round,
		Timestamp: e.Timestamp,
	})
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session_id", string(e.SessionID)),
			slog.String("error", err.Error()))
		return
	}
	hub.BroadcastEvent(string(e.Type), string(data))
}

// CloseSession disconnects everyone watching a session
func (b *Broadcaster) CloseSession(id model.SessionID) {
	b.hubManager.RemoveHub(id)
}
