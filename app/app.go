package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/nrednav/cuid2"

	"go.hackfix.me/brute/app/config"
	actx "go.hackfix.me/brute/app/context"
	"go.hackfix.me/brute/cli"
	"go.hackfix.me/brute/db"
	"go.hackfix.me/brute/db/queries"
	"go.hackfix.me/brute/login"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application. configFilePath and dataDir are the
// default locations of the configuration file and the database directory,
// which can be overridden via the CLI.
func New(name, configFilePath, dataDir string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		TimeNow: time.Now,
		UUIDGen: cuid2.Generate,
		Version: version,
		Hasher:  login.MD5(),
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(app.ctx, configFilePath, dataDir, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	cfg := config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
	if err := cfg.Load(); err != nil {
		return err
	}
	cfg.SetDefaults()
	app.ctx.Config = cfg
	// Defaults of server options documented in CLI help (e.g. the listen
	// address) come from the configuration, and only fill unset flags.
	app.cli.ApplyConfig(cfg)

	if app.ctx.DB == nil {
		if err := app.openDB(); err != nil {
			return err
		}
		defer func() {
			if err := app.ctx.DB.Close(); err != nil {
				app.ctx.Logger.Warn("failed closing database", "error", err.Error())
			}
			app.ctx.DB = nil
		}()
	}

	if err := app.loadMeta(); err != nil {
		return err
	}

	if err := app.cli.Execute(app.ctx); err != nil {
		return err
	}

	return nil
}

func (app *App) openDB() error {
	if err := app.ctx.FS.MkdirAll(app.cli.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed creating data directory: %w", err)
	}

	dbPath := filepath.Join(app.cli.DataDir, "brute.db")
	d, err := db.Open(app.ctx.Ctx, dbPath, app.ctx.TimeNow)
	if err != nil {
		return err
	}
	app.ctx.DB = d

	return nil
}

// loadMeta reads the version and hash function the database was initialized
// with.
func (app *App) loadMeta() error {
	meta, err := queries.GetMeta(app.ctx.DB.NewContext(), app.ctx.DB)
	if err != nil {
		return fmt.Errorf("failed reading database metadata: %w", err)
	}
	if !meta.Valid {
		app.ctx.VersionInit = ""
		return nil
	}

	hasher, err := login.HasherByName(meta.V.Hash)
	if err != nil {
		return fmt.Errorf("invalid database metadata: %w", err)
	}
	app.ctx.VersionInit = meta.V.Version
	app.ctx.Hasher = hasher

	return nil
}
