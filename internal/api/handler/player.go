package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellgame/internal/api/response"
	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/services/session"
)

// PlayerHandler handles player endpoints
type PlayerHandler struct {
	controller session.ControllerInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controller session.ControllerInterface) *PlayerHandler {
	return &PlayerHandler{controller: controller}
}

// Stats handles GET /api/v1/players/{id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	stats, err := h.controller.PlayerStats(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(stats))
}
