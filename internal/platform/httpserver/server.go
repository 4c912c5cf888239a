// Package httpserver wraps the standard http.Server with the timeouts and
// lifecycle hooks the service expects. Keeping it here keeps main small.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

// New returns an http.Server with conservative timeouts applied.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Server is a thin lifecycle wrapper around http.Server.
type Server struct {
	srv *http.Server
}

// ListenAndServe starts serving. It blocks until the server stops.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
