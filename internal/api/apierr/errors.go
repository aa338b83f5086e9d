package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/spellgame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidSettings  = "INVALID_SETTINGS"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeStatsNotFound    = "STATS_NOT_FOUND"
	CodeWrongPhase       = "WRONG_PHASE"
	CodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	CodePlayersNotReady  = "PLAYERS_NOT_READY"
	CodeAlreadyAnswered  = "ALREADY_ANSWERED"
	CodeRosterFull       = "ROSTER_FULL"
	CodeDuplicatePlayer  = "DUPLICATE_PLAYER"
	CodeConflict         = "CONFLICT"
	CodeProviderFailure  = "PROVIDER_UNAVAILABLE"
	CodeWordUnavailable  = "WORD_UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Lookups
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not in this game"}}
	case errors.Is(err, model.ErrStatsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeStatsNotFound, "No stats recorded for player"}}

	// Lifecycle
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Not allowed in the current phase"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNotEnoughPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrPlayersNotReady):
		return &httpError{http.StatusConflict, APIError{CodePlayersNotReady, "Not all players are ready"}}
	case errors.Is(err, model.ErrAlreadyAnswered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAnswered, "Already answered this round"}}

	// Roster
	case errors.Is(err, model.ErrRosterFull):
		return &httpError{http.StatusConflict, APIError{CodeRosterFull, "Game is full"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Already in this game"}}

	case errors.Is(err, model.ErrInvalidSettings):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, err.Error()}}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Game was modified concurrently, try again"}}

	// Collaborators. Word exhaustion wraps the last provider error so it is checked first.
	case errors.Is(err, model.ErrWordUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeWordUnavailable, "No word available, try again"}}
	case errors.Is(err, model.ErrTransientProvider):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeProviderFailure, "A downstream provider is unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Player identity required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInternalErrorWithRequestID creates an internal server error naming the
// request so it can be found in the logs
func NewInternalErrorWithRequestID(requestID string) error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error (request " + requestID + ")"}}
}
