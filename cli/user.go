package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/brute/app/context"
	aerrors "go.hackfix.me/brute/app/errors"
	"go.hackfix.me/brute/db/models"
	"go.hackfix.me/brute/db/types"
)

// The User command manages the users in the credential store.
type User struct {
	Add struct {
		Name     string `arg:"" help:"The name of the user."`
		Password string `required:"" help:"The password of the user."`
		Avatar   string `help:"Reference to the user's avatar image, usually a URL."`
	} `kong:"cmd,help='Add a new user.'"`
	Passwd struct {
		Name     string `arg:"" help:"The name of the user."`
		Password string `required:"" help:"The new password of the user."`
	} `kong:"cmd,help='Change the password of a user.'"`
	Rm struct {
		Name string `arg:"" help:"The name of the user."`
	} `kong:"cmd,help='Remove all users with a name.'"`
	Ls struct{} `kong:"cmd,help='List users.'"`
}

// Run the user command.
func (c *User) Run(kctx *kong.Context, appCtx *actx.Context) error {
	if err := requireInit(appCtx); err != nil {
		return err
	}

	dbCtx := appCtx.DB.NewContext()

	switch cmd := strings.Fields(kctx.Command()); cmd[1] {
	case "add":
		user := &models.User{
			Name:         c.Add.Name,
			PasswordHash: appCtx.Hasher.Sum(c.Add.Password),
			Avatar:       c.Add.Avatar,
		}
		if err := user.Save(dbCtx, appCtx.DB, false); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed adding user '%s'", c.Add.Name), err, "")
		}
		appCtx.Logger.Debug("added user", "name", user.Name, "id", user.ID)
	case "passwd":
		user := &models.User{Name: c.Passwd.Name}
		if err := user.Load(dbCtx, appCtx.DB); err != nil {
			var errIntegrity types.IntegrityError
			hint := ""
			if errors.As(err, &errIntegrity) {
				hint = "remove the duplicate users with 'brute user rm'"
			}
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed loading user '%s'", c.Passwd.Name), err, hint)
		}
		user.PasswordHash = appCtx.Hasher.Sum(c.Passwd.Password)
		if err := user.Save(dbCtx, appCtx.DB, true); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed updating user '%s'", c.Passwd.Name), err, "")
		}
	case "rm":
		user := &models.User{Name: c.Rm.Name}
		if err := user.Delete(dbCtx, appCtx.DB); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed removing user '%s'", c.Rm.Name), err, "")
		}
	case "ls":
		users, err := models.Users(dbCtx, appCtx.DB, nil)
		if err != nil {
			return aerrors.NewRuntimeError("failed listing users", err, "")
		}

		data := make([][]string, len(users))
		for i, user := range users {
			data[i] = []string{
				user.Name, user.Avatar,
				user.CreatedAt.Local().Format(time.DateTime),
			}
		}

		if len(data) > 0 {
			header := []string{"Name", "Avatar", "Created"}
			if err = renderTable(header, data, appCtx.Stdout); err != nil {
				return aerrors.NewRuntimeError("failed rendering table", err, "")
			}
		}
	}

	return nil
}
