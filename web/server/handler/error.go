package handler

import (
	"net/http"
	"strings"

	"go.hackfix.me/brute/web/server/types"
)

// sanitizeError returns a copy of err with its message reduced according to
// lvl, in order to avoid leaking internal details to clients.
func sanitizeError(err *types.Error, lvl types.ErrorLevel) *types.Error {
	msg := err.Message
	switch lvl {
	case types.ErrorLevelFull:
	case types.ErrorLevelMinimal:
		// Wrapped errors are joined with ": ", and only the outermost context
		// is kept.
		if i := strings.Index(msg, ": "); i > 0 {
			msg = msg[:i]
		}
	default:
		msg = http.StatusText(err.StatusCode)
	}

	return types.NewError(err.StatusCode, msg)
}
