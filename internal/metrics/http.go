package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"deedles.dev/wlframe/internal/debug"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns a router that serves the metrics at /metrics.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP)
	return r
}

// Server serves the metrics over HTTP.
type Server struct {
	srv *http.Server
	lis net.Listener
}

// Listen starts serving the metrics on addr in the background.
func (m *Metrics) Listen(addr string) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := Server{
		srv: &http.Server{
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		lis: lis,
	}
	go func() {
		err := s.srv.Serve(lis)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			debug.Error().Err(err).Msg("metrics server failed")
		}
	}()

	debug.Info().Str("addr", lis.Addr().String()).Msg("serving metrics")
	return &s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
