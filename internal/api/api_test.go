package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/spellgame/internal/api"
	"github.com/mcoot/spellgame/internal/api/apierr"
	"github.com/mcoot/spellgame/internal/api/middleware"
	"github.com/mcoot/spellgame/internal/api/response"
	"github.com/mcoot/spellgame/internal/factory"
	"github.com/mcoot/spellgame/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:     testutil.NopLogger(),
		Controller: app.Controller,
		HubManager: app.HubManager,
	})

	return &testServer{handler: router, app: app}
}

type caller struct {
	id   string
	name string
}

var (
	alice = caller{"alice", "Alice"}
	bob   = caller{"bob", "Bob"}
	anon  = caller{}
)

func newRequest(method, path string, body any, as caller) *http.Request {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if as.id != "" {
		req.Header.Set(middleware.HeaderPlayerID, as.id)
		req.Header.Set(middleware.HeaderPlayerName, as.name)
	}
	return req
}

func (ts *testServer) request(method, path string, body any, as caller) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, newRequest(method, path, body, as))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

// createSession creates a session hosted by alice and returns its ID
func (ts *testServer) createSession(t *testing.T, body any) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions", body, alice)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Session](t, rr).ID
}

// startedSession creates a session alice and bob are playing
func (ts *testServer) startedSession(t *testing.T, rounds int) string {
	t.Helper()
	id := ts.createSession(t, map[string]any{"settings": map[string]any{"total_rounds": rounds}})
	base := "/api/v1/sessions/" + id

	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, base+"/join", nil, bob).Code)
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, base+"/ready", nil, alice).Code)
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, base+"/ready", map[string]bool{"ready": true}, bob).Code)
	rr := ts.request(http.MethodPost, base+"/start", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return id
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, anon)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
}

func TestSessionRoutesRequireIdentity(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, anon)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
}

func TestCreateSessionDefaults(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, alice)

	require.Equal(t, http.StatusCreated, rr.Code)
	s := decode[response.Session](t, rr)
	assert.Equal(t, "LOBBY", s.State)
	assert.Equal(t, "Alice's game", s.Name)
	assert.Equal(t, "alice", s.HostID)
	assert.Equal(t, 4, s.Settings.MaxPlayers)
	assert.Equal(t, "MEDIUM", s.Settings.Difficulty)
	require.Len(t, s.Players, 1)
	assert.True(t, s.Players[0].IsHost)
	assert.Equal(t, 1200, s.Players[0].Rating)
}

func TestCreateSessionInvalidSettings(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions",
		map[string]any{"settings": map[string]any{"max_players": 12}}, alice)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidSettings, errorCode(t, rr))
}

func TestCreateSessionMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("{"))
	req.Header.Set(middleware.HeaderPlayerID, "alice")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestGetUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/missing", nil, alice)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}

func TestJoinTwiceConflicts(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/join", nil, alice)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeDuplicatePlayer, errorCode(t, rr))
}

func TestStartRequiresReadyPlayers(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, nil)
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/join", nil, bob).Code)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/start", nil, alice)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodePlayersNotReady, errorCode(t, rr))
}

func TestListSessionsByState(t *testing.T) {
	ts := newTestServer(t)
	lobbyID := ts.createSession(t, nil)
	startedID := ts.startedSession(t, 2)

	rr := ts.request(http.MethodGet, "/api/v1/sessions", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	lobbies := decode[response.SessionList](t, rr)
	require.Len(t, lobbies.Sessions, 1)
	assert.Equal(t, lobbyID, lobbies.Sessions[0].ID)

	rr = ts.request(http.MethodGet, "/api/v1/sessions?state=ROUND_STARTING", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	starting := decode[response.SessionList](t, rr)
	require.Len(t, starting.Sessions, 1)
	assert.Equal(t, startedID, starting.Sessions[0].ID)

	rr = ts.request(http.MethodGet, "/api/v1/sessions?state=PAUSED", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedSession(t, 1)
	base := "/api/v1/sessions/" + id

	rr := ts.request(http.MethodPost, base+"/rounds", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	round := decode[response.Session](t, rr)
	assert.Equal(t, "ROUND_IN_PROGRESS", round.State)
	assert.Empty(t, round.CurrentWord)

	rr = ts.request(http.MethodGet, base, nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.Session](t, rr).CurrentWord)

	ts.app.MockClock.Advance(10 * time.Second)
	rr = ts.request(http.MethodPost, base+"/answers", map[string]string{"answer": factory.TestWord}, bob)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	answered := decode[response.Session](t, rr)
	assert.Equal(t, "ROUND_ENDED", answered.State)
	assert.Equal(t, factory.TestWord, answered.CurrentWord)

	rr = ts.request(http.MethodPost, base+"/answers", map[string]string{"answer": factory.TestWord}, alice)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeWrongPhase, errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/advance", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	done := decode[response.Session](t, rr)
	assert.Equal(t, "COMPLETED", done.State)
	assert.Equal(t, "bob", done.Winner)

	rr = ts.request(http.MethodGet, "/api/v1/players/bob/stats", nil, anon)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[response.PlayerStats](t, rr)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.GamesWon)
	assert.Greater(t, stats.TotalScore, 0)
}

func TestStatsNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/nobody/stats", nil, anon)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeStatsNotFound, errorCode(t, rr))
}

func TestLeaveLastPlayerDeletesSession(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/leave", nil, alice)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, alice)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEndSession(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedSession(t, 3)

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/"+id, nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "COMPLETED", decode[response.Session](t, rr).State)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+id, nil, alice)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, nil)
	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.HeaderPlayerID, "alice")

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	require.Equal(t, "event: connected", lines.Text())

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/join", nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)

	for lines.Scan() {
		if lines.Text() == "event: player_joined" {
			require.True(t, lines.Scan())
			assert.Contains(t, lines.Text(), `"player_id":"bob"`)
			return
		}
	}
	t.Fatalf("stream ended before player_joined: %v", lines.Err())
}
