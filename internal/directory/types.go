package directory

import "time"

// Device represents a registered water-level device.
// This matches the devices table created by migrations/20260801_120000_initial_schema.up.sql.
type Device struct {
	// Identity
	ID   string `json:"id"`
	Key  string `json:"device_key"`
	Name string `json:"name"`

	// Thresholds in the same unit as water-level readings.
	// Invariant: 0.0 <= MinThreshold < MaxThreshold <= 999.99.
	MinThreshold float64 `json:"min_threshold"`
	MaxThreshold float64 `json:"max_threshold"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
