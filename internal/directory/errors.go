package directory

import "errors"

// Domain errors for the directory package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, directory.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device key or ID does not exist.
	ErrDeviceNotFound = errors.New("directory: device not found")

	// ErrDeviceExists is returned when creating a device whose ID or key already exists.
	ErrDeviceExists = errors.New("directory: device already exists")

	// ErrInvalidKey is returned when a device key is not a 36-character canonical UUID.
	ErrInvalidKey = errors.New("directory: invalid device key")

	// ErrInvalidThresholds is returned when threshold validation fails.
	ErrInvalidThresholds = errors.New("directory: invalid thresholds")

	// ErrInvalidName is returned when a device name is empty or too long.
	ErrInvalidName = errors.New("directory: invalid name")
)
