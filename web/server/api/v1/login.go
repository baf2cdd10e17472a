package api

import (
	"context"
	"log/slog"

	aerrors "go.hackfix.me/brute/app/errors"
	"go.hackfix.me/brute/login"
	"go.hackfix.me/brute/web/server/middleware"
	"go.hackfix.me/brute/web/server/types"
)

// LoginPost checks the submitted credentials against the credential store. A
// failed login is reported in the response data, not as an error.
func (h *Handler) LoginPost(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	res := login.Check(ctx, h.appCtx.DB, h.appCtx.Hasher,
		login.Request{Username: req.Username, Password: req.Password})
	if res.Err != nil {
		aerrors.Log(h.logger, slog.LevelWarn, aerrors.NewWithCause(
			"failed looking up credentials", res.Err,
			"username", req.Username, "request_id", middleware.RequestID(ctx)))
	}

	return types.NewLoginResponse(types.LoginResponseData{
		Authenticated: res.Authenticated,
		Username:      res.Username,
		Avatar:        res.Avatar,
		Message:       res.Message(),
	}), nil
}
