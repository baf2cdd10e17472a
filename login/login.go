package login

import (
	"context"
	"fmt"
	"net/url"

	"go.hackfix.me/brute/db/models"
	"go.hackfix.me/brute/db/types"
)

// Names of the request parameters read by the login check.
const (
	ParamTrigger  = "Login"
	ParamUsername = "username"
	ParamPassword = "password"
)

// Request is a single login attempt.
type Request struct {
	Username string
	Password string
}

// Triggered reports whether the parameters contain the login signal. The value
// of the parameter is irrelevant.
func Triggered(params url.Values) bool {
	return params.Has(ParamTrigger)
}

// RequestFromValues extracts the login request from the parameters. Values are
// not validated.
func RequestFromValues(params url.Values) Request {
	return Request{
		Username: params.Get(ParamUsername),
		Password: params.Get(ParamPassword),
	}
}

// Authenticate looks up the credential record matching the request's username
// and the hash of its password. The user is authenticated only if exactly one
// record matches. A failed query is reported as a failed authentication, with
// the cause stored in Result.Err.
//
// The caller owns d. Authenticate releases every resource it acquires from it
// before returning.
func Authenticate(ctx context.Context, d types.Querier, hasher Hasher, req Request) Result {
	res := Result{Username: req.Username}

	filter := types.NewFilter("u.user = ? AND u.password = ?",
		[]any{req.Username, hasher.Sum(req.Password)})
	users, err := models.Users(ctx, d, filter)
	if err != nil {
		res.Err = err
		return res
	}

	switch len(users) {
	case 0:
	case 1:
		res.Authenticated = true
		res.Avatar = users[0].Avatar
	default:
		res.Err = types.IntegrityError{
			Msg: fmt.Sprintf("%d users match name '%s' and password", len(users), req.Username),
		}
	}

	return res
}
