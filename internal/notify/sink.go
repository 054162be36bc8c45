package notify

import (
	"time"

	"github.com/hydrosense/waterlevel-core/internal/telemetry"
)

// Event type discriminators carried in every per-device payload so a
// subscriber can demultiplex events on one channel.
const (
	EventSensorUpdate     = "SENSOR_UPDATE"
	EventPumpStatus       = "PUMP_STATUS"
	EventThresholdUpdated = "THRESHOLD_UPDATED"
)

// DeviceChannel returns the subscription channel for a device's events.
func DeviceChannel(deviceID string) string {
	return "device/" + deviceID
}

// SensorUpdatePayload is pushed for every stored reading.
type SensorUpdatePayload struct {
	Type       string  `json:"type"`
	DeviceID   string  `json:"deviceId"`
	WaterLevel float64 `json:"waterLevel"`
	PumpStatus string  `json:"pumpStatus"`
	Timestamp  string  `json:"timestamp"`
}

// PumpStatusPayload is pushed when a device's pump state is of interest on
// its own, such as after a commanded pump start.
type PumpStatusPayload struct {
	Type       string `json:"type"`
	DeviceID   string `json:"deviceId"`
	PumpStatus string `json:"pumpStatus"`
	Timestamp  string `json:"timestamp"`
}

// ThresholdUpdatedPayload confirms a threshold change to live subscribers.
type ThresholdUpdatedPayload struct {
	Type         string  `json:"type"`
	DeviceID     string  `json:"deviceId"`
	MinThreshold float64 `json:"minThreshold"`
	MaxThreshold float64 `json:"maxThreshold"`
	Timestamp    string  `json:"timestamp"`
}

// SendSensorUpdate fans a stored reading out to the device's subscribers.
// Best effort; never returns an error to the ingestion path.
func (h *Hub) SendSensorUpdate(deviceID string, waterLevel float64, pumpStatus telemetry.PumpStatus, timestamp time.Time) {
	h.Broadcast(DeviceChannel(deviceID), SensorUpdatePayload{
		Type:       EventSensorUpdate,
		DeviceID:   deviceID,
		WaterLevel: waterLevel,
		PumpStatus: string(pumpStatus),
		Timestamp:  timestamp.UTC().Format(time.RFC3339),
	})
}

// SendPumpStatusUpdate pushes a standalone pump state change.
func (h *Hub) SendPumpStatusUpdate(deviceID string, pumpStatus telemetry.PumpStatus, timestamp time.Time) {
	h.Broadcast(DeviceChannel(deviceID), PumpStatusPayload{
		Type:       EventPumpStatus,
		DeviceID:   deviceID,
		PumpStatus: string(pumpStatus),
		Timestamp:  timestamp.UTC().Format(time.RFC3339),
	})
}

// SendThresholdUpdateConfirmation pushes a threshold change confirmation.
func (h *Hub) SendThresholdUpdateConfirmation(deviceID string, minThreshold, maxThreshold float64, timestamp time.Time) {
	h.Broadcast(DeviceChannel(deviceID), ThresholdUpdatedPayload{
		Type:         EventThresholdUpdated,
		DeviceID:     deviceID,
		MinThreshold: minThreshold,
		MaxThreshold: maxThreshold,
		Timestamp:    timestamp.UTC().Format(time.RFC3339),
	})
}
