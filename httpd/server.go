// Package httpd is the HTTP surface of the export service.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/config"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
)

const (
	readTimeout     = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	srv *http.Server
}

// NewRouter builds the route table: POST / runs an export, /healthz and
// /metrics are for the platform.
func NewRouter(runner Runner, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(trace)
	r.Use(recovery)
	r.Use(instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	export := http.Handler(&exporter{
		runner:  runner,
		timeout: cfg.RequestTimeout,
	})

	if cfg.RateLimit.PerSecond > 0 {
		export = newLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst).middleware(export)
	}

	r.Method(http.MethodPost, "/", export)

	return r
}

func NewServer(runner Runner, cfg *config.Config) *Server {
	handler := NewRouter(runner, cfg)
	if cfg.HTTP2 {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Listen,
			Handler:           handler,
			ReadHeaderTimeout: readTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
			IdleTimeout:       idleTimeout,
		},
	}
}

// ListenAndServe runs until the context is cancelled and then shuts down
// gracefully, waiting for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %v (%v)", s.srv.Addr, err)
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errs := make(chan error, 1)

	go func() {
		log.Infof("httpd", "listening on %v", listener.Addr())
		errs <- s.srv.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err

	case <-ctx.Done():
		log.Infof("httpd", "shutting down")

		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.srv.SetKeepAlivesEnabled(false)

		if err := s.srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("error shutting down HTTP server (%v)", err)
		}

		if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}
