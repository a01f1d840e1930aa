// Package server is the trading engine's process shell. It owns no
// trading logic yet; it marks its own start and stop in the log.
package server

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/tradingengine/logger"
)

// DefaultName is the module name the server logs under
const DefaultName = "TradingEngineServer"

// Config holds server settings
type Config struct {
	// Name is used both as the log module and in the start/stop lines
	Name string
}

// Server runs until its context ends
type Server struct {
	log  logger.Interface
	name string

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a server logging through log
func New(log logger.Interface, cfg Config) (*Server, error) {
	if log == nil {
		return nil, errors.New("server: logger is required")
	}
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	return &Server{log: log, name: name}, nil
}

// Name returns the server's module name
func (s *Server) Name() string {
	return s.name
}

// Run blocks until ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.log.Information(s.name, "Starting "+s.name)
	<-ctx.Done()
	s.log.Information(s.name, "Stopped "+s.name)
	return nil
}

// Start runs the server in the background. Calling Start on a running
// server is an error.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		return errors.Errorf("server %s already started", s.name)
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gctx)
	})
	s.cancel = cancel
	s.group = g
	return nil
}

// Stop cancels a server started with Start and waits for Run to return.
// Stop on a server that was never started is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	g, cancel := s.group, s.cancel
	s.group, s.cancel = nil, nil
	s.mu.Unlock()

	if g == nil {
		return nil
	}
	cancel()
	return g.Wait()
}
