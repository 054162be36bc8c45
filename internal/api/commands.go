package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hydrosense/waterlevel-core/internal/directory"
	"github.com/hydrosense/waterlevel-core/internal/telemetry"
)

// CommandDispatcher delivers commands to devices over the transport.
type CommandDispatcher interface {
	PublishPumpStart(ctx context.Context, deviceKey, initiatedBy string) bool
	PublishThresholdUpdate(ctx context.Context, deviceKey string, minThreshold, maxThreshold float64, updatedBy string) bool
}

// DeviceDirectory resolves and updates devices for command requests.
type DeviceDirectory interface {
	FindByKey(ctx context.Context, key string) (*directory.Device, error)
	UpdateThresholds(ctx context.Context, id string, minThreshold, maxThreshold float64) error
}

// Notifier pushes command confirmations to live subscribers.
type Notifier interface {
	SendPumpStatusUpdate(deviceID string, pumpStatus telemetry.PumpStatus, timestamp time.Time)
	SendThresholdUpdateConfirmation(deviceID string, minThreshold, maxThreshold float64, timestamp time.Time)
}

// pumpStartRequest is the body for POST /devices/{key}/pump/start.
type pumpStartRequest struct {
	InitiatedBy string `json:"initiatedBy"`
}

// thresholdUpdateRequest is the body for PUT /devices/{key}/thresholds.
type thresholdUpdateRequest struct {
	MinThreshold float64 `json:"minThreshold"`
	MaxThreshold float64 `json:"maxThreshold"`
	UpdatedBy    string  `json:"updatedBy"`
}

// commandResponse reports whether the device acknowledged delivery.
// delivered=false is a degraded success: the request was valid but the
// device did not receive the command within the retry budget.
type commandResponse struct {
	Delivered bool `json:"delivered"`
}

// handlePumpStart relays a pump start command to the device.
func (s *Server) handlePumpStart(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	device, ok := s.resolveDevice(w, r, key)
	if !ok {
		return
	}

	var req pumpStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.InitiatedBy == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "initiatedBy is required"})
		return
	}

	delivered := s.dispatcher.PublishPumpStart(r.Context(), key, req.InitiatedBy)
	if delivered && s.notifier != nil {
		s.notifier.SendPumpStatusUpdate(device.ID, telemetry.PumpOn, time.Now())
	}

	writeJSON(w, http.StatusOK, commandResponse{Delivered: delivered})
}

// handleThresholdUpdate persists new thresholds and relays them to the device.
func (s *Server) handleThresholdUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	device, ok := s.resolveDevice(w, r, key)
	if !ok {
		return
	}

	var req thresholdUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.UpdatedBy == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "updatedBy is required"})
		return
	}

	if err := s.directory.UpdateThresholds(r.Context(), device.ID, req.MinThreshold, req.MaxThreshold); err != nil {
		if errors.Is(err, directory.ErrInvalidThresholds) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("threshold update failed", "device_id", device.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "threshold update failed"})
		return
	}

	delivered := s.dispatcher.PublishThresholdUpdate(r.Context(), key, req.MinThreshold, req.MaxThreshold, req.UpdatedBy)
	if s.notifier != nil {
		s.notifier.SendThresholdUpdateConfirmation(device.ID, req.MinThreshold, req.MaxThreshold, time.Now())
	}

	writeJSON(w, http.StatusOK, commandResponse{Delivered: delivered})
}

// handleLatestReading returns the device's most recent stored reading.
// Pump status defaults to UNKNOWN when the device has never reported.
func (s *Server) handleLatestReading(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	device, ok := s.resolveDevice(w, r, key)
	if !ok {
		return
	}

	reading, err := s.store.Latest(r.Context(), device.ID)
	if err != nil {
		if errors.Is(err, telemetry.ErrNoReadings) {
			writeJSON(w, http.StatusOK, map[string]any{
				"deviceId":   device.ID,
				"pumpStatus": string(telemetry.PumpUnknown),
			})
			return
		}
		s.logger.Error("latest reading query failed", "device_id", device.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deviceId":   reading.DeviceID,
		"waterLevel": reading.WaterLevel,
		"pumpStatus": string(reading.PumpStatus),
		"timestamp":  reading.Timestamp.UTC().Format(time.RFC3339),
	})
}

// resolveDevice looks the device up by key, writing the error response on
// failure. The bool reports whether the caller may proceed.
func (s *Server) resolveDevice(w http.ResponseWriter, r *http.Request, key string) (*directory.Device, bool) {
	if err := directory.ValidateKey(key); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid device key"})
		return nil, false
	}

	device, err := s.directory.FindByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, directory.ErrDeviceNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "device not found"})
			return nil, false
		}
		s.logger.Error("device lookup failed", "device_key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "device lookup failed"})
		return nil, false
	}

	return device, true
}
