// Package page renders the brute force lab page.
package page

import (
	"html/template"
	"log/slog"
	"net/http"

	actx "go.hackfix.me/brute/app/context"
	aerrors "go.hackfix.me/brute/app/errors"
	"go.hackfix.me/brute/login"
	"go.hackfix.me/brute/web/server/middleware"
)

var bruteTmpl = template.Must(template.New("brute").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Vulnerability: Brute Force</title>
</head>
<body>
<h1>Vulnerability: Brute Force</h1>
<div class="login">
<h2>Login</h2>
<form action="#" method="GET">
Username:<br />
<input type="text" name="` + login.ParamUsername + `"><br />
Password:<br />
<input type="password" autocomplete="off" name="` + login.ParamPassword + `"><br />
<br />
<input type="submit" value="Login" name="` + login.ParamTrigger + `">
</form>
{{.Output}}
</div>
</body>
</html>
`))

type bruteData struct {
	Output template.HTML
}

// Brute returns the handler of the lab page. The login check only runs if the
// Login parameter is present; its output is composed into the page as is.
func Brute(appCtx *actx.Context, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data bruteData

		params := r.URL.Query()
		if login.Triggered(params) {
			req := login.RequestFromValues(params)
			res := login.Check(r.Context(), appCtx.DB, appCtx.Hasher, req)
			if res.Err != nil {
				aerrors.Log(logger, slog.LevelWarn, aerrors.NewWithCause(
					"failed looking up credentials", res.Err,
					"username", req.Username, "request_id", middleware.RequestID(r.Context())))
			}
			//nolint:gosec // Unescaped output is what the lab is about.
			data.Output = template.HTML(res.HTML())
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := bruteTmpl.Execute(w, data); err != nil {
			logger.Error("failed rendering page", "error", err.Error())
		}
	}
}
