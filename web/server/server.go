package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	actx "go.hackfix.me/brute/app/context"
	"go.hackfix.me/brute/web/server/api/v1"
	"go.hackfix.me/brute/web/server/middleware"
	"go.hackfix.me/brute/web/server/page"
	"go.hackfix.me/brute/web/server/types"
)

// Options configures the web server.
type Options struct {
	// AvatarsDir is the directory avatar images are served from. If empty,
	// avatars aren't served.
	AvatarsDir string
	// ErrorLevel is the detail level of error messages returned to API clients.
	ErrorLevel types.ErrorLevel
}

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
}

// New returns a new web Server instance that will listen on addr.
func New(appCtx *actx.Context, addr string, opts Options) *Server {
	logger := appCtx.Logger.With("component", "web-server")
	return &Server{
		Server: &http.Server{
			Handler:           SetupHandlers(appCtx, logger, opts),
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the system
// (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// SetupHandlers configures the server HTTP handlers.
func SetupHandlers(appCtx *actx.Context, logger *slog.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1",
		api.SetupHandlers(appCtx, logger, opts.ErrorLevel)))
	mux.Handle("GET /brute/{$}", page.Brute(appCtx, logger))
	if opts.AvatarsDir != "" {
		mux.Handle("GET /brute/avatars/", http.StripPrefix("/brute/avatars/",
			http.FileServer(http.Dir(opts.AvatarsDir))))
	}
	mux.Handle("GET /{$}", http.RedirectHandler("/brute/", http.StatusFound))

	return middleware.Chain(mux,
		middleware.WithRequestID(appCtx.UUIDGen),
		middleware.Logger(logger),
	)
}
