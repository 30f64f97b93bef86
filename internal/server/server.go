package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/generator"
	"github.com/mcncl/jsonview/internal/layout"
	"github.com/mcncl/jsonview/internal/loader"
	"github.com/mcncl/jsonview/internal/logging"
)

// Server serves the rendered page over HTTP. Every page request mounts a
// fresh Loader; when the client goes away before the document arrives the
// loader is deactivated and the late result is dropped.
type Server struct {
	source    loader.Source
	layout    layout.Layout
	generator *generator.Generator
	logger    *slog.Logger
}

// New creates a Server. A nil logger discards diagnostics.
func New(source loader.Source, l layout.Layout, g *generator.Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		source:    source,
		layout:    l,
		generator: g,
		logger:    logger,
	}
}

// Handler returns the routes: the page at "/", the raw document at "/raw"
// and a liveness probe at "/healthz".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /raw", s.handleRaw)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// mount runs one activation bound to the request. ok is false when the
// client disconnected first.
func (s *Server) mount(r *http.Request) (state loader.LoadState, ok bool) {
	l := loader.New(s.source, loader.WithLogger(s.logger))
	l.Activate(r.Context())
	defer l.Deactivate()

	state, err := l.Wait(r.Context())
	if err == nil {
		err = r.Context().Err()
	}
	if err != nil {
		s.logger.Debug("client went away before load finished", "path", r.URL.Path, "error", err)
		return state, false
	}
	return state, true
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	state, ok := s.mount(r)
	if !ok {
		return
	}

	page, err := layout.Build(s.layout, s.source.Describe(), state)
	if err != nil {
		s.logger.Error("failed to build page", "error", err)
		http.Error(w, errors.UserFriendlyError(err), http.StatusInternalServerError)
		return
	}

	html, err := s.generator.GeneratePage(page)
	if err != nil {
		s.logger.Error("failed to generate page", "error", err)
		http.Error(w, errors.UserFriendlyError(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if page.ShowsError() {
		w.WriteHeader(http.StatusBadGateway)
	}
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	state, ok := s.mount(r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if state.Phase != loader.Success {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": state.Message()})
		return
	}

	raw, err := state.Value.Indent()
	if err != nil {
		s.logger.Error("failed to encode raw data", "error", err)
		return
	}
	_, _ = w.Write([]byte(raw + "\n"))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "source", s.source.Describe())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.NewOutputError("server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.NewOutputError("server shutdown failed", err)
	}
	return nil
}
