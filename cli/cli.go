package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/brute/app/config"
	actx "go.hackfix.me/brute/app/context"
	aerrors "go.hackfix.me/brute/app/errors"
	"go.hackfix.me/brute/login"
)

// CLI is the command line interface of brute.
type CLI struct {
	Init  Init  `kong:"cmd,help='Create the credential store.'"`
	Login Login `kong:"cmd,help='Check credentials against the credential store.'"`
	Serve Serve `kong:"cmd,help='Start the web server.'"`
	User  User  `kong:"cmd,help='Manage users.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// NOTE: kong.ConfigFlag isn't used, since configuration is managed
	// independently from the CLI.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the configuration file.'"`
	DataDir    string           `kong:"default='${dataDir}',help='Path to the directory where the credential store is kept.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(appCtx *actx.Context, configFilePath, dataDir, version string) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("brute"),
		kong.Description("A login form that is meant to be brute forced."),
		kong.UsageOnError(),
		kong.DefaultEnvars("BRUTE"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Writers(appCtx.Stdout, appCtx.Stderr),
		kong.Vars{
			"configFile": configFilePath,
			"dataDir":    dataDir,
			"hashes":     strings.Join(login.HasherNames(), ", "),
			"version":    version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	c.kong.Stdout = appCtx.Stdout
	c.kong.Stderr = appCtx.Stderr

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if c.Serve.Address == "" && cfg.Server.Address.Valid {
		c.Serve.Address = cfg.Server.Address.V
	}
	if c.Serve.AvatarsDir == "" && cfg.Server.AvatarsDir.Valid {
		c.Serve.AvatarsDir = cfg.Server.AvatarsDir.V
	}
	if c.Serve.ErrorLevel == "" && cfg.Server.ErrorLevel.Valid {
		c.Serve.ErrorLevel = string(cfg.Server.ErrorLevel.V)
	}
}

// requireInit returns an error if the credential store hasn't been initialized.
func requireInit(appCtx *actx.Context) error {
	if appCtx.VersionInit == "" {
		return aerrors.NewRuntimeError("the credential store isn't initialized", nil,
			"run 'brute init' first")
	}

	return nil
}
