package login

import (
	"context"
	"errors"

	"go.hackfix.me/brute/db"
)

// Check acquires a connection from d, authenticates req with it, and releases
// the connection before returning, whatever the outcome.
func Check(ctx context.Context, d *db.DB, hasher Hasher, req Request) (res Result) {
	conn, err := d.Acquire(ctx)
	if err != nil {
		return Result{Username: req.Username, Err: err}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			res.Err = errors.Join(res.Err, cerr)
		}
	}()

	return Authenticate(ctx, conn, hasher, req)
}
