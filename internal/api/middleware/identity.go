package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/spellgame/internal/api/apierr"
	"github.com/mcoot/spellgame/internal/model"
)

// Identity headers set by the upstream authenticator
const (
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"
)

type contextKey string

const playerContextKey contextKey = "player"

// Identity requires the caller's player identity headers and stores the
// resulting candidate in the request context
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidate, ok := extractCandidate(r)
			if !ok {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			ctx := context.WithValue(r.Context(), playerContextKey, candidate)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractCandidate reads the identity headers. The display name falls back
// to the ID.
func extractCandidate(r *http.Request) (model.Candidate, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderPlayerID))
	if id == "" {
		return model.Candidate{}, false
	}
	name := strings.TrimSpace(r.Header.Get(HeaderPlayerName))
	if name == "" {
		name = id
	}
	return model.Candidate{ID: model.PlayerID(id), Username: name}, true
}

// GetPlayer returns the caller from the request context
func GetPlayer(ctx context.Context) (model.Candidate, bool) {
	candidate, ok := ctx.Value(playerContextKey).(model.Candidate)
	return candidate, ok
}

// MustGetPlayer returns the caller or panics
func MustGetPlayer(ctx context.Context) model.Candidate {
	candidate, ok := GetPlayer(ctx)
	if !ok {
		panic("no player in context - identity middleware not applied?")
	}
	return candidate
}
