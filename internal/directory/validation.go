package directory

import (
	"fmt"

	"github.com/google/uuid"
)

// Validation constants.
const (
	// deviceKeyLength is the length of a canonical UUID string.
	deviceKeyLength = 36

	// maxNameLength bounds device names.
	maxNameLength = 100

	// Threshold bounds match the decimal(5,2) range of water-level readings.
	minThresholdValue = 0.0
	maxThresholdValue = 999.99
)

// ValidateKey checks that a device key is a 36-character canonical UUID
// (8-4-4-4-12 hex groups). Other forms accepted by general UUID parsers
// (braced, URN, bare hex) are rejected: devices on the wire present keys
// in canonical form only, and a cheap format check here avoids a directory
// lookup for garbage input.
func ValidateKey(key string) error {
	if len(key) != deviceKeyLength {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidKey, len(key), deviceKeyLength)
	}
	if _, err := uuid.Parse(key); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// ValidateThresholds checks the min/max threshold pair for a device.
func ValidateThresholds(minThreshold, maxThreshold float64) error {
	if minThreshold < minThresholdValue || maxThreshold > maxThresholdValue {
		return fmt.Errorf("%w: values must be within [%.1f, %.2f]", ErrInvalidThresholds, minThresholdValue, maxThresholdValue)
	}
	if minThreshold >= maxThreshold {
		return fmt.Errorf("%w: min %.2f must be below max %.2f", ErrInvalidThresholds, minThreshold, maxThreshold)
	}
	return nil
}

// ValidateDevice performs full validation on a device record.
// Returns the first validation failure found.
func ValidateDevice(d *Device) error {
	if d == nil {
		return fmt.Errorf("%w: nil device", ErrInvalidKey)
	}
	if err := ValidateKey(d.Key); err != nil {
		return err
	}
	if d.Name == "" || len(d.Name) > maxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidName, maxNameLength)
	}
	return ValidateThresholds(d.MinThreshold, d.MaxThreshold)
}
