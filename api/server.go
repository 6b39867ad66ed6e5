// Package api provides the HTTP control surface of the streaming service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/matt-g-everett/ledanim/stream"
)

// Controller is the set of operations exposed over HTTP.
type Controller interface {
	Status() stream.Status
	Next()
	Pause()
	Resume()
}

// Server serves the controller's status and commands, and optionally a
// directory of client pages.
type Server struct {
	addr string
	ctrl Controller
	log  *slog.Logger
	mux  *http.ServeMux
}

// NewServer returns a Server for ctrl listening on addr. If static is not
// empty, the files below it are served at the root.
func NewServer(addr string, ctrl Controller, static string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		addr: addr,
		ctrl: ctrl,
		log:  log.With(slog.String("component", "api")),
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /status", s.status)
	s.mux.HandleFunc("POST /next", s.command(ctrl.Next))
	s.mux.HandleFunc("POST /pause", s.command(ctrl.Pause))
	s.mux.HandleFunc("POST /resume", s.command(ctrl.Resume))
	if static != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(static)))
	}
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(s.ctrl.Status())
	if err != nil {
		s.log.Warn("failed to write status", slog.Any("error", err))
	}
}

func (s *Server) command(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("command", slog.String("path", r.URL.Path))
		fn()
		s.status(w, r)
	}
}

// Serve listens on the server's address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("listening", slog.String("addr", ln.Addr().String()))
	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}
