// Package server runs the HTTP and gRPC listeners of the service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	"github.com/go-sod/kmeans/internal/logging"
)

const DefaultShutdownTimeout = 5 * time.Second

type Option func(*Server)

// WithShutdownTimeout bounds how long in-flight HTTP requests may take once
// the context is done. Non-positive values keep the default.
func WithShutdownTimeout(t time.Duration) Option {
	return func(s *Server) {
		if t > 0 {
			s.shutdownTimeout = t
		}
	}
}

type Server struct {
	addr            string
	listener        net.Listener
	shutdownTimeout time.Duration
}

func New(addr string, opts ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on %s: %w", addr, err)
	}

	s := &Server{
		addr:            listener.Addr().String(),
		listener:        listener,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, f := range opts {
		f(s)
	}
	return s, nil
}

// Addr returns the address the listener is bound to.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) ServeHTTP(ctx context.Context, srv *http.Server) error {
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()

		logger.Debugf("server.Serve: context closed")
		shutdownCtx, done := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer done()

		logger.Debugf("server.Serve: shutting down")
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	logger.Debugf("server.Serve: serving stopped")

	// Serve returns as soon as Shutdown starts, the drain result comes later
	if err := <-errCh; err != nil {
		return fmt.Errorf("failed to shutdown: %w", err)
	}
	return nil
}

func (s *Server) ServeHTTPHandler(ctx context.Context, handler http.Handler) error {
	return s.ServeHTTP(ctx, &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// ServeGRPC serves srv on the listener until ctx is done, then stops it
// gracefully.
func (s *Server) ServeGRPC(ctx context.Context, srv *grpc.Server) error {
	logger := logging.FromContext(ctx)
	logger.Debugf("server: grpc listening on %s", s.addr)

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			logger.Debugf("server: grpc context closed")
			srv.GracefulStop()
		case <-stopped:
		}
	}()
	defer close(stopped)

	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve grpc: %w", err)
	}

	logger.Debugf("server: grpc serving stopped")
	return nil
}
