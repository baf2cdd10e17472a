package api

import (
	"log/slog"
	"net/http"

	actx "go.hackfix.me/brute/app/context"
	"go.hackfix.me/brute/web/server/handler"
	"go.hackfix.me/brute/web/server/types"
)

// Handler is the API endpoint handler.
type Handler struct {
	appCtx *actx.Context
	logger *slog.Logger
}

// SetupHandlers configures the web API handlers. errLvl is the detail level of
// error messages returned to clients.
func SetupHandlers(appCtx *actx.Context, logger *slog.Logger, errLvl types.ErrorLevel) http.Handler {
	h := Handler{appCtx: appCtx, logger: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", handler.Handle(h.LoginPost,
		handler.NewPipeline().
			Serialize(handler.JSON()).
			ErrorLevel(errLvl).
			ProcessResponse(handler.NoStore),
	))

	return mux
}
