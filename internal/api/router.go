package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellgame/internal/api/handler"
	"github.com/mcoot/spellgame/internal/api/middleware"
	"github.com/mcoot/spellgame/internal/api/response"
	"github.com/mcoot/spellgame/internal/api/sse"
	"github.com/mcoot/spellgame/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller session.ControllerInterface
	// HubManager enables the event stream and broadcasts (optional)
	HubManager *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	var broadcaster *sse.Broadcaster
	if cfg.HubManager != nil {
		broadcaster = sse.NewBroadcaster(cfg.HubManager, cfg.Logger)
	}

	sessionHandler := handler.NewSessionHandler(cfg.Controller, cfg.HubManager, broadcaster)
	playerHandler := handler.NewPlayerHandler(cfg.Controller)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/stats", playerHandler.Stats).Methods(http.MethodGet)

	// Session routes act on behalf of the identified caller
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(middleware.Identity())
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("", sessionHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/leave", sessionHandler.Leave).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/ready", sessionHandler.Ready).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/start", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/rounds", sessionHandler.BeginRound).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/answers", sessionHandler.SubmitAnswer).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/advance", sessionHandler.Advance).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/events", sessionHandler.Events).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
