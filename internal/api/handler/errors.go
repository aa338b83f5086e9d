package handler

import (
	"fmt"
	"net/http"

	"github.com/mcoot/spellgame/internal/api/apierr"
	"github.com/mcoot/spellgame/internal/model"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

func errInvalidBody() error {
	return apierr.NewInvalidRequestError("invalid request body")
}

func errUnknownState(state string) error {
	return apierr.NewInvalidRequestError(fmt.Sprintf("unknown state %q: expected one of %s, %s, %s, %s, %s",
		state, model.StateLobby, model.StateRoundStarting, model.StateRoundInProgress,
		model.StateRoundEnded, model.StateCompleted))
}

func errStreamingDisabled() error {
	return apierr.NewInvalidRequestError("event streaming is disabled")
}
