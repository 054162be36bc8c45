package gateway

import (
	"time"

	"github.com/hydrosense/waterlevel-core/internal/infrastructure/mqtt"
)

// Command is an outbound device command. Commands are transient: built,
// serialized, published and discarded. They are never persisted here.
type Command interface {
	// Topic returns the device command topic for this command type.
	Topic(deviceKey string) string
}

// PumpStartCommand instructs a device to start its pump.
type PumpStartCommand struct {
	Command     string `json:"command"`
	Timestamp   string `json:"timestamp"`
	InitiatedBy string `json:"initiatedBy"`
}

// NewPumpStartCommand builds a pump start command issued by the given user.
func NewPumpStartCommand(initiatedBy string, issuedAt time.Time) PumpStartCommand {
	return PumpStartCommand{
		Command:     "START",
		Timestamp:   issuedAt.UTC().Format(time.RFC3339),
		InitiatedBy: initiatedBy,
	}
}

// Topic returns the pump start topic for the device.
func (PumpStartCommand) Topic(deviceKey string) string {
	return mqtt.Topics{}.PumpStart(deviceKey)
}

// ThresholdUpdateCommand pushes new alert thresholds to a device.
type ThresholdUpdateCommand struct {
	MinThreshold float64 `json:"minThreshold"`
	MaxThreshold float64 `json:"maxThreshold"`
	Timestamp    string  `json:"timestamp"`
	UpdatedBy    string  `json:"updatedBy"`
}

// NewThresholdUpdateCommand builds a threshold update command.
func NewThresholdUpdateCommand(minThreshold, maxThreshold float64, updatedBy string, issuedAt time.Time) ThresholdUpdateCommand {
	return ThresholdUpdateCommand{
		MinThreshold: minThreshold,
		MaxThreshold: maxThreshold,
		Timestamp:    issuedAt.UTC().Format(time.RFC3339),
		UpdatedBy:    updatedBy,
	}
}

// Topic returns the threshold update topic for the device.
func (ThresholdUpdateCommand) Topic(deviceKey string) string {
	return mqtt.Topics{}.ThresholdUpdate(deviceKey)
}
