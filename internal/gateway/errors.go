package gateway

import "errors"

// Sentinel errors for gateway operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, gateway.ErrDecodeFailed) {
//	    // malformed payload, absorb and log
//	}
var (
	// ErrEncodeFailed is returned when a command payload cannot be serialized.
	ErrEncodeFailed = errors.New("gateway: encode failed")

	// ErrDecodeFailed is returned when an inbound payload is not a valid document.
	ErrDecodeFailed = errors.New("gateway: decode failed")

	// ErrMissingField is returned when a required telemetry field is absent or null.
	ErrMissingField = errors.New("gateway: missing required field")

	// ErrInvalidDeviceKey is returned when the device key is not canonical UUID text.
	ErrInvalidDeviceKey = errors.New("gateway: invalid device key")

	// ErrInvalidWaterLevel is returned when the water level is non-finite or out of range.
	ErrInvalidWaterLevel = errors.New("gateway: invalid water level")

	// ErrUnknownDevice is returned when the device key does not resolve in the directory.
	ErrUnknownDevice = errors.New("gateway: unknown device")

	// ErrSchedulerClosed is returned when a delayed action is submitted after shutdown.
	ErrSchedulerClosed = errors.New("gateway: scheduler closed")

	// ErrSchedulerFull is returned when the pending timer limit is reached.
	ErrSchedulerFull = errors.New("gateway: scheduler full")
)
