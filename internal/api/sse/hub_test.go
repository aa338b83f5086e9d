package sse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{"single line data", "round_started", `{"round":1}`, "event: round_started\ndata: {\"round\":1}\n\n"},
		{"multi-line data", "update", "a\nb", "event: update\ndata: a\ndata: b\n\n"},
		{"empty data", "ping", "", "event: ping\ndata: \n\n"},
		{"carriage returns", "test", "line1\r\nline2\r\n", "event: test\ndata: line1\ndata: line2\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.send:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHubBroadcastsToAllClients(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	clients := []*Client{NewClient(hub, "alice"), NewClient(hub, "bob")}
	for _, c := range clients {
		require.True(t, hub.Register(c))
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("update", "data")

	for _, c := range clients {
		assert.Equal(t, "event: update\ndata: data\n\n", receive(t, c))
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "alice")
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-client.send
	assert.False(t, open)
}

func TestClosedHubRejectsClients(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	hub.Close()
	hub.Close()

	assert.False(t, hub.Register(NewClient(hub, "alice")))
}

func TestHubManagerLifecycle(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	first := manager.GetOrCreateHub("session-1")
	second := manager.GetOrCreateHub("session-1")
	manager.GetOrCreateHub("session-2")

	assert.Same(t, first, second)
	assert.Equal(t, 2, manager.HubCount())
	assert.Nil(t, manager.GetHub("session-3"))

	manager.RemoveHub("session-1")
	assert.Nil(t, manager.GetHub("session-1"))

	assert.Equal(t, 1, manager.CleanupEmptyHubs())
	assert.Equal(t, 0, manager.HubCount())

	hub := manager.GetOrCreateHub("session-4")
	manager.CloseAll()
	assert.Equal(t, 0, manager.HubCount())
	assert.False(t, hub.Register(NewClient(hub, "alice")))
}

func TestBroadcasterPublishesJSON(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("session-1")
	defer manager.RemoveHub("session-1")
	client := NewClient(hub, "alice")
	require.True(t, hub.Register(client))

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	NewBroadcaster(manager, testutil.NopLogger()).Publish(model.Event{
		Type:      model.EventRoundStarted,
		Timestamp: at,
		SessionID: "session-1",
		State:     model.StateRoundInProgress,
		Round:     2,
	})

	msg := receive(t, client)
	require.True(t, strings.HasPrefix(msg, "event: round_started\ndata: "))
	var payload EventPayload
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(msg, "event: round_started\ndata: "))), &payload))
	assert.Equal(t, "round_started", payload.Type)
	assert.Equal(t, "ROUND_IN_PROGRESS", payload.State)
	assert.Equal(t, 2, payload.Round)
	assert.Empty(t, payload.PlayerID)
	assert.True(t, at.Equal(payload.Timestamp))
}

func TestBroadcasterSkipsUnwatchedSessions(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	NewBroadcaster(manager, testutil.NopLogger()).Publish(model.Event{Type: model.EventPlayerJoined, SessionID: "nobody"})

	assert.Equal(t, 0, manager.HubCount())
}

func TestServeSSEStreamsUntilHubCloses(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("session-1")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	done := make(chan struct{})
	go func() {
		ServeSSE(rr, req, hub, "alice")
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastEvent("player_joined", `{"player_id":"bob"}`)
	// Give the loop a moment to write before the hub shuts the stream
	time.Sleep(20 * time.Millisecond)
	manager.RemoveHub("session-1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ServeSSE did not return after hub closed")
	}
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "event: connected\n")
	assert.Contains(t, rr.Body.String(), "event: player_joined\ndata: {\"player_id\":\"bob\"}\n\n")
}
