package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Options configures a Server.
type Options struct {
	// Root is the directory served at /.
	Root       string
	Port       int
	LiveReload bool
	// Registry enables /metrics when non-nil.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server serves the output directory for local preview.
type Server struct {
	opts   Options
	hub    *LiveReloadHub
	logger *slog.Logger
}

// New returns a Server. The live reload hub exists even when live reload
// is disabled so Notify is always safe to call.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, hub: NewLiveReloadHub(), logger: logger}
}

// Handler returns the preview mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	files := http.FileServer(http.Dir(s.opts.Root))
	if s.opts.LiveReload {
		mux.Handle("/livereload", s.hub)
		mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			if _, err := w.Write([]byte(LiveReloadScript)); err != nil {
				s.logger.Error("failed to write livereload script", logfields.Error(err))
			}
		})
		files = injectLiveReload(files)
	}
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/", noCache(files))
	return mux
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// Notify tells connected browsers that a build completed.
func (s *Server) Notify(buildID string) {
	s.hub.Broadcast(buildID)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("preview listen on port %d: %w", s.opts.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       300 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Preview server listening", slog.String("addr", ln.Addr().String()), logfields.Path(s.opts.Root))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview shutdown: %w", err)
	}
	return nil
}
