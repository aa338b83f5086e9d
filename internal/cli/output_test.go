package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/spellgame/internal/api/response"
)

func TestOutputSessionText(t *testing.T) {
	var buf bytes.Buffer
	o := NewOutput("text", &buf, &buf)

	o.Print(response.Session{
		ID:           "session-1",
		Name:         "Alice's game",
		State:        "COMPLETED",
		CurrentRound: 2,
		CurrentWord:  "rhythm",
		Clue:         &response.Clue{PartOfSpeech: "noun", Definition: "a regular beat"},
		Settings:     response.Settings{TotalRounds: 2, MaxPlayers: 4, RoundDuration: 30, Difficulty: "EASY"},
		Players: []response.Player{
			{ID: "alice", Username: "Alice", Score: 150, Rating: 1216, IsHost: true, IsReady: true},
			{ID: "bob", Username: "Bob", Score: 0, Rating: 1184},
		},
		Winner: "alice",
	})

	out := buf.String()
	assert.Contains(t, out, "Round: 2/2")
	assert.Contains(t, out, "Clue: (noun) a regular beat")
	assert.Contains(t, out, "Word: rhythm")
	assert.Contains(t, out, "Alice (alice): 150 pts, rating 1216 [host, ready]")
	assert.Contains(t, out, "Bob (bob): 0 pts, rating 1184\n")
	assert.Contains(t, out, "Winner: alice")
}

func TestOutputJSONAndMessages(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := NewOutput("json", &stdout, &stderr)

	o.Print(response.Health{Status: "ok"})
	var health response.Health
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)

	stdout.Reset()
	o.PrintMessage("done")
	assert.JSONEq(t, `{"message":"done"}`, stdout.String())

	o.PrintError(assert.AnError)
	assert.Contains(t, stderr.String(), `"message"`)
}

func TestOutputEmptySessionList(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf, &buf).Print(response.SessionList{})
	assert.Equal(t, "No sessions\n", buf.String())
}

func TestSettingsFlagsOnlySendsChangedFlags(t *testing.T) {
	newCmd := func() (*cobra.Command, *settingsFlags) {
		var f settingsFlags
		cmd := &cobra.Command{Use: "create"}
		f.register(cmd)
		return cmd, &f
	}

	cmd, f := newCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	assert.Nil(t, f.request(cmd))

	cmd, f = newCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--rounds", "3", "--difficulty", "expert"}))
	req := f.request(cmd)
	require.NotNil(t, req)
	require.NotNil(t, req.TotalRounds)
	assert.Equal(t, 3, *req.TotalRounds)
	require.NotNil(t, req.Difficulty)
	assert.Equal(t, "EXPERT", *req.Difficulty)
	assert.Nil(t, req.MaxPlayers)
}

func TestPrintEventJSON(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, "player_joined", `{"player_id":"bob"}`, true)

	var evt SSEEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &evt))
	assert.Equal(t, "player_joined", evt.Event)
	assert.JSONEq(t, `{"player_id":"bob"}`, string(evt.Data))
}
