package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/spellgame/internal/model"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{model.ErrGameNotFound, http.StatusNotFound},
		{model.ErrPlayerNotFound, http.StatusNotFound},
		{model.ErrStatsNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: cannot start", model.ErrWrongPhase), http.StatusConflict},
		{model.ErrNotEnoughPlayers, http.StatusConflict},
		{model.ErrPlayersNotReady, http.StatusConflict},
		{model.ErrAlreadyAnswered, http.StatusConflict},
		{model.ErrRosterFull, http.StatusConflict},
		{model.ErrDuplicatePlayer, http.StatusConflict},
		{model.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: max players", model.ErrInvalidSettings), http.StatusBadRequest},
		{fmt.Errorf("%w: meeting", model.ErrTransientProvider), http.StatusServiceUnavailable},
		{model.ErrWordUnavailable, http.StatusServiceUnavailable},
		{NewInvalidRequestError("bad"), http.StatusBadRequest},
		{NewUnauthorizedError(), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestWordUnavailableWinsOverWrappedProviderError(t *testing.T) {
	err := fmt.Errorf("%w after 5 attempts: %w", model.ErrWordUnavailable, model.ErrTransientProvider)

	rr := httptest.NewRecorder()
	WriteError(rr, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeWordUnavailable, resp.Error.Code)
}

func TestWriteErrorIncludesSettingsDetail(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, fmt.Errorf("%w: total rounds must be between 1 and 20", model.ErrInvalidSettings))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeInvalidSettings, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "total rounds")
}
