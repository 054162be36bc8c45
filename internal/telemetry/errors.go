package telemetry

import "errors"

// Sentinel errors for telemetry storage operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, telemetry.ErrNoReadings) {
//	    // device has no data yet
//	}
var (
	// ErrInvalidPumpStatus is returned when a pump status string is not ON, OFF or UNKNOWN.
	ErrInvalidPumpStatus = errors.New("telemetry: invalid pump status")

	// ErrConnectionFailed is returned when the initial store connection fails.
	ErrConnectionFailed = errors.New("telemetry: connection failed")

	// ErrAppendFailed is returned when a reading could not be persisted.
	ErrAppendFailed = errors.New("telemetry: append failed")

	// ErrQueryFailed is returned when a read query against the store fails.
	ErrQueryFailed = errors.New("telemetry: query failed")

	// ErrNoReadings is returned when a device has no stored readings.
	ErrNoReadings = errors.New("telemetry: no readings for device")
)
