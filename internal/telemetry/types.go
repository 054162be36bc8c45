package telemetry

import (
	"fmt"
	"strings"
	"time"
)

// PumpStatus is the device-reported pump state.
type PumpStatus string

// Pump status values. UNKNOWN is a legitimate state a device may report
// (e.g. after power-up, before its pump controller has settled); it is
// never used as a parse-failure fallback.
const (
	PumpOn      PumpStatus = "ON"
	PumpOff     PumpStatus = "OFF"
	PumpUnknown PumpStatus = "UNKNOWN"
)

// ParsePumpStatus converts a wire string to a PumpStatus.
//
// Matching is case-insensitive but exact: anything other than ON, OFF or
// UNKNOWN is a validation failure. Unrecognised strings are NOT coerced to
// PumpUnknown - that would conflate a parse failure with a state devices
// genuinely report.
func ParsePumpStatus(s string) (PumpStatus, error) {
	switch strings.ToUpper(s) {
	case string(PumpOn):
		return PumpOn, nil
	case string(PumpOff):
		return PumpOff, nil
	case string(PumpUnknown):
		return PumpUnknown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPumpStatus, s)
	}
}

// Reading is one persisted telemetry sample for a device.
// Immutable after creation; created exactly once per valid inbound message.
type Reading struct {
	// DeviceID is the resolved device identity (directory ID, not the wire key).
	DeviceID string `json:"device_id"`

	// WaterLevel is the measured level. Invariant at persistence time:
	// finite and within [0.0, 999.99].
	WaterLevel float64 `json:"water_level"`

	// PumpStatus is the device-reported pump state.
	PumpStatus PumpStatus `json:"pump_status"`

	// Timestamp is the effective reading time: the device-reported instant
	// when present and parseable, otherwise the ingestion time.
	Timestamp time.Time `json:"timestamp"`
}
