package queries

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.hackfix.me/brute/db/types"
)

// Meta is the store metadata written when the database is initialized.
type Meta struct {
	Version    string
	InstanceID string
	Hash       string
}

// GetMeta returns the store metadata. If the returned sql.Null value is
// invalid, it indicates that the database hasn't been initialized.
func GetMeta(ctx context.Context, d types.Querier) (sql.Null[Meta], error) {
	var meta sql.Null[Meta]
	err := d.QueryRowContext(ctx,
		`SELECT version, instance_id, hash FROM _meta`).
		Scan(&meta.V.Version, &meta.V.InstanceID, &meta.V.Hash)
	switch {
	case err == nil:
		meta.Valid = true
	case errors.Is(err, sql.ErrNoRows), isNoTableErr(err):
		return meta, nil
	default:
		return meta, err
	}

	return meta, nil
}

func isNoTableErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
