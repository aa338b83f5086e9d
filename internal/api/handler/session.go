package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellgame/internal/api/middleware"
	"github.com/mcoot/spellgame/internal/api/request"
	"github.com/mcoot/spellgame/internal/api/response"
	"github.com/mcoot/spellgame/internal/api/sse"
	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/services/session"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	controller  session.ControllerInterface
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewSessionHandler creates a new session handler. hubManager may be nil,
// which disables event streaming.
func NewSessionHandler(controller session.ControllerInterface, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *SessionHandler {
	return &SessionHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

// decodeBody decodes a JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody()
}

func (h *SessionHandler) publish(eventType model.EventType, s *model.Session, playerID model.PlayerID) {
	if h.broadcaster == nil {
		return
	}
	h.broadcaster.Publish(model.Event{
		Type:      eventType,
		Timestamp: s.UpdatedAt,
		SessionID: s.ID,
		PlayerID:  playerID,
		State:     s.State,
		Round:     s.CurrentRound,
	})
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.controller.Create(r.Context(), req.Name, player, req.Settings.Override())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.SessionFromModel(s))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	state := model.StateLobby
	if q := r.URL.Query().Get("state"); q != "" {
		state = model.SessionState(q)
		if !state.Valid() {
			WriteError(w, errUnknownState(q))
			return
		}
	}

	sessions, err := h.controller.List(r.Context(), state)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionListFromModel(sessions))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.Get(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Join handles POST /api/v1/sessions/{id}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	s, err := h.controller.Join(r.Context(), sessionID(r), player)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventPlayerJoined, s, player.ID)
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Leave handles POST /api/v1/sessions/{id}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	s, err := h.controller.Leave(r.Context(), sessionID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventPlayerLeft, s, player.ID)
	if len(s.Players) == 0 {
		// The session was deleted along with its last player
		if h.broadcaster != nil {
			h.broadcaster.CloseSession(s.ID)
		}
		response.NoContent(w)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Ready handles POST /api/v1/sessions/{id}/ready
func (h *SessionHandler) Ready(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	req := request.ReadyRequest{Ready: true}
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.controller.SetReady(r.Context(), sessionID(r), player.ID, req.Ready)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventPlayerReady, s, player.ID)
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Start handles POST /api/v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	s, err := h.controller.Start(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventGameStarted, s, player.ID)
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// BeginRound handles POST /api/v1/sessions/{id}/rounds
func (h *SessionHandler) BeginRound(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.BeginRound(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventRoundStarted, s, "")
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// SubmitAnswer handles POST /api/v1/sessions/{id}/answers
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.AnswerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.controller.SubmitAnswer(r.Context(), sessionID(r), player.ID, req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventAnswerSubmitted, s, player.ID)
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Advance handles POST /api/v1/sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.Advance(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	if s.State == model.StateCompleted {
		h.publish(model.EventGameCompleted, s, "")
	} else {
		h.publish(model.EventRoundAdvanced, s, "")
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	s, err := h.controller.End(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.publish(model.EventGameCompleted, s, player.ID)
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Events handles GET /api/v1/sessions/{id}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if h.hubManager == nil {
		WriteError(w, errStreamingDisabled())
		return
	}

	s, err := h.controller.Get(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(s.ID), player.ID)
}
