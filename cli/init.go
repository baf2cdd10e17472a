package cli

import (
	"fmt"
	"strings"

	actx "go.hackfix.me/brute/app/context"
	aerrors "go.hackfix.me/brute/app/errors"
	"go.hackfix.me/brute/db"
	"go.hackfix.me/brute/db/models"
	"go.hackfix.me/brute/login"
)

// The Init command creates the credential store, seeds it with the default lab
// users, and writes the default configuration.
type Init struct {
	Hash   string `default:"md5" help:"Hash function used for stored passwords. Valid values: ${hashes}"`
	NoSeed bool   `help:"Don't create the default users."`
}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	if appCtx.VersionInit != "" {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("the credential store is already initialized with version %s", appCtx.VersionInit),
			nil, "")
	}

	hasher, err := login.HasherByName(c.Hash)
	if err != nil {
		return aerrors.NewRuntimeError("invalid hash function", err,
			fmt.Sprintf("valid values: %s", strings.Join(login.HasherNames(), ", ")))
	}

	var users []*models.User
	if !c.NoSeed {
		users = db.DefaultUsers(hasher.Sum)
	}

	err = appCtx.DB.Init(appCtx.Version.Semantic, hasher.Name(), users, appCtx.Logger)
	if err != nil {
		return aerrors.NewRuntimeError("failed initializing the credential store", err, "")
	}
	appCtx.VersionInit = appCtx.Version.Semantic
	appCtx.Hasher = hasher

	if err = appCtx.Config.Save(); err != nil {
		return aerrors.NewRuntimeError("failed saving the configuration", err, "")
	}

	return nil
}
