package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readinessProbeTimeout bounds each dependency check in /readyz.
const readinessProbeTimeout = 3 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	if s.hub != nil {
		r.Get(s.wsPath(), s.hub.HandleConnection)
	}

	// Command relay routes for the CRUD service.
	if s.dispatcher != nil && s.directory != nil {
		r.Route("/api/v1/devices/{key}", func(r chi.Router) {
			r.Post("/pump/start", s.handlePumpStart)
			r.Put("/thresholds", s.handleThresholdUpdate)
			if s.store != nil {
				r.Get("/readings/latest", s.handleLatestReading)
			}
		})
	}

	return r
}

// wsPath returns the configured WebSocket endpoint path.
func (s *Server) wsPath() string {
	if s.wsCfg.Path != "" {
		return s.wsCfg.Path
	}
	return "/ws"
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleReady probes each registered dependency and reports per-check status.
// Any failing dependency turns the response into 503.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.readiness))
	ready := true

	for name, checker := range s.readiness {
		ctx, cancel := context.WithTimeout(r.Context(), readinessProbeTimeout)
		err := checker.HealthCheck(ctx)
		cancel()

		if err != nil {
			checks[name] = err.Error()
			ready = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		overall = "not ready"
	}

	writeJSON(w, status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Response write failures are the client's problem
	json.NewEncoder(w).Encode(body)
}
