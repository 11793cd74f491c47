package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordchain-go/internal/api/apierr"
	"github.com/mcoot/wordchain-go/internal/middleware"
)

// Recovery answers panics on /api routes with an INTERNAL_ERROR body.
// Panics after a WebSocket upgrade are only logged.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "recovery")), func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
