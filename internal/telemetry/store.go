package telemetry

import "context"

// Store persists water-level readings and answers point-in-time queries.
//
// Implementations must be safe for concurrent use from multiple goroutines.
type Store interface {
	// Append persists a single reading. The write is synchronous: a nil
	// return means the reading is durably accepted by the backend.
	Append(ctx context.Context, reading Reading) error

	// Latest returns the most recent reading for a device, or ErrNoReadings
	// when the device has never reported.
	Latest(ctx context.Context, deviceID string) (Reading, error)

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
