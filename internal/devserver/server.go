package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves a handler on a TCP address until its context ends.
type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger

	// ready, if set, receives the bound address once listening.
	ready func(addr string)
}

func NewServer(address string, handler http.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{address: address, handler: handler, logger: logger}
}

// Run listens and serves. When ctx is done the server drains open
// requests for up to five seconds and Run returns nil.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping object server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting object server", "address", listen.Addr().String())
	if s.ready != nil {
		s.ready(listen.Addr().String())
	}

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
