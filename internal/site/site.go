// Package site serves the writeup browser as server-rendered HTML.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/taigrr/ctf-writeups/internal/logging"
	"github.com/taigrr/ctf-writeups/internal/render"
	"github.com/taigrr/ctf-writeups/internal/types"
)

//go:embed templates static
var assets embed.FS

// ShutdownTimeout bounds how long in-flight requests may take to finish once
// the server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Service is the read side the pages are built from.
type Service interface {
	Platforms(ctx context.Context) ([]types.Platform, error)
	Writeups(ctx context.Context, platform string) ([]types.WriteupSummary, error)
	Detail(ctx context.Context, platform, slug string) (types.WriteupDetail, error)
}

// Options configures a Server.
type Options struct {
	Addr     string
	CacheTTL time.Duration
	Logger   glog.Logger
}

// Server renders the home, platform and writeup pages.
type Server struct {
	service  Service
	renderer *render.Renderer
	logger   glog.Logger
	pages    map[string]*template.Template
	cacheTTL time.Duration
	addr     string
	handler  http.Handler
}

// New creates a Server. Templates are parsed once here.
func New(service Service, renderer *render.Renderer, opts Options) (*Server, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		service:  service,
		renderer: renderer,
		logger:   logging.OrNop(opts.Logger),
		pages:    pages,
		cacheTTL: opts.CacheTTL,
		addr:     opts.Addr,
	}

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /static/{file}", http.StripPrefix("/static/", http.FileServerFS(static)))
	// Crawler and browser requests must not turn into repository listings.
	mux.HandleFunc("GET /robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "robots.txt")
	})
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /{platform}", s.handlePlatform)
	mux.HandleFunc("GET /{platform}/{writeup}", s.handleWriteup)

	s.handler = s.withRequestID(s.withLogging(mux))
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("").ParseFS(assets,
		"templates/layout.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, name := range []string{pageHome, pagePlatform, pageWriteup} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(assets, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
