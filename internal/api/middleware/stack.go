package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/spellgame/internal/api/apierr"
	"github.com/mcoot/spellgame/internal/middleware"
)

// Recovery turns panics into INTERNAL_ERROR JSON responses
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

// Logging logs each API request and assigns its request ID
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")))
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	err := apierr.NewInternalError()
	if id := w.Header().Get(middleware.HeaderRequestID); id != "" {
		err = apierr.NewInternalErrorWithRequestID(id)
	}
	apierr.WriteError(w, err)
}
