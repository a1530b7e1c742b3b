// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jcastanov/issuemap/internal/logging"
)

// HTTPService runs an http.Server as a suture service with graceful
// shutdown.
type HTTPService struct {
	name            string
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
}

// NewHTTPService wraps a handler for supervision.
func NewHTTPService(name, addr string, handler http.Handler, shutdownTimeout time.Duration) *HTTPService {
	return &HTTPService{
		name:            name,
		addr:            addr,
		handler:         handler,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled, then
// drains in-flight requests within the shutdown timeout.
func (s *HTTPService) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("service", s.name).Str("addr", s.addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("HTTP shutdown incomplete, closing")
		_ = srv.Close()
	}
	return ctx.Err()
}

func (s *HTTPService) String() string { return s.name }

// PeriodicService runs fn immediately and then on every tick until the
// context is canceled. A panic in fn crashes the service and lets the
// supervisor restart it.
type PeriodicService struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context)
}

// NewPeriodicService wraps a function for supervised periodic execution.
func NewPeriodicService(name string, interval time.Duration, fn func(ctx context.Context)) *PeriodicService {
	return &PeriodicService{name: name, interval: interval, fn: fn}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.fn(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.fn(ctx)
		}
	}
}

func (s *PeriodicService) String() string { return s.name }

// Runner is anything that blocks in Run until its context is canceled, the
// notification bus router in practice.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService adapts a Runner to suture.Service.
type RunnerService struct {
	name   string
	runner Runner
}

// NewRunnerService wraps a Runner for supervision.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{name: name, runner: runner}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.Run(ctx)
}

func (s *RunnerService) String() string { return s.name }
