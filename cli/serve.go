package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	actx "go.hackfix.me/brute/app/context"
	aerrors "go.hackfix.me/brute/app/errors"
	"go.hackfix.me/brute/web/server"
	stypes "go.hackfix.me/brute/web/server/types"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the web server. Unset options are filled from the
// configuration file by CLI.ApplyConfig, which is where the documented
// defaults come from.
type Serve struct {
	Address    string `arg:"" optional:"" help:"[host]:port to listen on. Default: 127.0.0.1:4280"`
	AvatarsDir string `help:"Directory to serve avatar images from, under /brute/avatars/."`
	//nolint:lll // Long struct tags are unavoidable.
	ErrorLevel string `help:"Detail level of error messages returned to API clients. This doesn't affect response status codes. Valid values: none, minimal, full. Default: none"`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	if err := requireInit(appCtx); err != nil {
		return err
	}

	errLvl, err := stypes.ErrorLevelFromString(c.ErrorLevel)
	if err != nil {
		return aerrors.NewRuntimeError("invalid error level", err, "")
	}

	srv := server.New(appCtx, c.Address, server.Options{
		AvatarsDir: c.AvatarsDir,
		ErrorLevel: errLvl,
	})

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error, 1)
	go func() {
		srvErr := srv.ListenAndServe()
		slog.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		slog.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		slog.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	// The main context may already be done, so shutdown can't depend on it.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(appCtx.Ctx), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	return nil
}
