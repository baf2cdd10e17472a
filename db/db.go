package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/brute/db/migrator"
	"go.hackfix.me/brute/db/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps sql.DB with additional context and migration functionality.
type DB struct {
	*sql.DB
	ctx        context.Context
	timeNow    func() time.Time
	path       string
	migrations []*migrator.Migration
}

var _ types.Querier = (*DB)(nil)

// Open creates and configures a new SQLite database connection with migrations
// support. The schema is not created until Init is called.
func Open(ctx context.Context, path string, timeNow func() time.Time) (*DB, error) {
	var d *DB
	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		defer func() {
			if d != nil {
				// See https://github.com/mattn/go-sqlite3#faq
				d.SetMaxIdleConns(10)
				d.SetConnMaxLifetime(time.Duration(math.Inf(1)))
			}
		}()
	}

	sqliteDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	d = &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed getting migrations directory: %w", err)
	}
	migrations, err := migrator.LoadMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	d.migrations = migrations

	return d, nil
}

// NewContext returns the main database context.
func (d *DB) NewContext() context.Context {
	return d.ctx
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}

// Path returns the path or DSN the database was opened with.
func (d *DB) Path() string {
	return d.path
}

// Acquire reserves a single connection from the pool. The caller must Close it
// to return it to the pool.
func (d *DB) Acquire(ctx context.Context) (*Conn, error) {
	conn, err := d.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed acquiring database connection: %w", err)
	}

	return &Conn{Conn: conn, ctx: ctx, timeNow: d.timeNow}, nil
}

// Conn is a single database connection scoped to one unit of work.
type Conn struct {
	*sql.Conn
	ctx     context.Context
	timeNow func() time.Time
}

var _ types.Querier = (*Conn)(nil)

// NewContext returns the context the connection was acquired with.
func (c *Conn) NewContext() context.Context {
	return c.ctx
}

// TimeNow returns the current system time.
func (c *Conn) TimeNow() time.Time {
	return c.timeNow()
}
