// Package api provides the HTTP ops server for the waterlevel gateway.
//
// It exposes liveness and readiness probes, Prometheus metrics and the
// WebSocket subscription endpoint. Device CRUD and user auth live in a
// separate service; this server only carries what the gateway itself owns.
//
// The server follows the same lifecycle pattern as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hydrosense/waterlevel-core/internal/infrastructure/config"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/logging"
	"github.com/hydrosense/waterlevel-core/internal/notify"
	"github.com/hydrosense/waterlevel-core/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is a named dependency probed by the readiness endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ReadingSource answers latest-reading queries.
type ReadingSource interface {
	Latest(ctx context.Context, deviceID string) (telemetry.Reading, error)
}

// Deps holds the dependencies required by the ops server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Hub     *notify.Hub
	Version string

	// Command relay dependencies. The CRUD service calls these endpoints;
	// when Dispatcher or Directory is nil the command routes are not mounted.
	Dispatcher CommandDispatcher
	Directory  DeviceDirectory
	Store      ReadingSource
	Notifier   Notifier

	// Readiness maps probe names to the dependencies they check.
	Readiness map[string]HealthChecker
}

// Server is the gateway's HTTP ops server.
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	hub        *notify.Hub
	dispatcher CommandDispatcher
	directory  DeviceDirectory
	store      ReadingSource
	notifier   Notifier
	readiness  map[string]HealthChecker
	version    string
	server     *http.Server
}

// New creates an ops server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		logger:     deps.Logger,
		hub:        deps.Hub,
		dispatcher: deps.Dispatcher,
		directory:  deps.Directory,
		store:      deps.Store,
		notifier:   deps.Notifier,
		readiness:  deps.Readiness,
		version:    deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; the server is stopped with
// Close().
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		s.logger.Info("ops server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("ops server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the ops server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("ops server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down ops server: %w", err)
	}
	return nil
}
