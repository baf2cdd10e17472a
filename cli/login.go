package cli

import (
	"fmt"

	actx "go.hackfix.me/brute/app/context"
	"go.hackfix.me/brute/login"
)

// The Login command runs the login check against the credential store, the
// same way the web server does.
type Login struct {
	Username string `arg:"" help:"The user name."`
	Password string `arg:"" help:"The password."`
}

// Run the login command. A failed login is not an error.
func (c *Login) Run(appCtx *actx.Context) error {
	if err := requireInit(appCtx); err != nil {
		return err
	}

	res := login.Check(appCtx.DB.NewContext(), appCtx.DB, appCtx.Hasher,
		login.Request{Username: c.Username, Password: c.Password})
	if res.Err != nil {
		appCtx.Logger.Warn("failed looking up credentials",
			"username", c.Username, "error", res.Err.Error())
	}

	_, err := fmt.Fprintln(appCtx.Stdout, res.Message())

	return err //nolint:wrapcheck // This is fine.
}
