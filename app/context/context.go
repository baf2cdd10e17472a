package context

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/brute/app/config"
	"go.hackfix.me/brute/db"
	"go.hackfix.me/brute/login"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx     context.Context // global context
	FS      vfs.FileSystem  // filesystem
	Env     Environment     // process environment
	Logger  *slog.Logger    // global logger
	TimeNow func() time.Time
	UUIDGen func() string // generates unique IDs, e.g. for requests
	Config  *config.Config
	DB      *db.DB

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Metadata
	Version     *VersionInfo
	VersionInit string       // version the database was initialized with, if any
	Hasher      login.Hasher // hash function of the stored credentials
}
