package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the server on the configured address until an interrupt or
// terminate signal arrives.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx, s.cfg.Addr)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.pages.StartJanitor(s.janitorInterval())

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", addr, "base_url", s.cfg.BaseURL)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return errors.Join(err, s.Shutdown(shutdownCtx))
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown closes the event sockets, stops accepting requests, drops every
// page and then runs the cleanup hooks.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server")

	// Hijacked connections are not closed by http.Server.Shutdown.
	s.events.Shutdown()

	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.pages.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, fn := range s.cleanup {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
