package telemetry

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local development.
//
// Readings are kept per device in append order. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	readings map[string][]Reading
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		readings: make(map[string][]Reading),
	}
}

// Append stores the reading in memory.
func (s *MemoryStore) Append(_ context.Context, reading Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings[reading.DeviceID] = append(s.readings[reading.DeviceID], reading)
	return nil
}

// Latest returns the reading with the newest timestamp for the device.
func (s *MemoryStore) Latest(_ context.Context, deviceID string) (Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.readings[deviceID]
	if len(stored) == 0 {
		return Reading{}, fmt.Errorf("%w: %s", ErrNoReadings, deviceID)
	}

	latest := stored[0]
	for _, r := range stored[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}

	return latest, nil
}

// All returns every stored reading for a device, in append order.
// Test helper; not part of the Store interface.
func (s *MemoryStore) All(deviceID string) []Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Reading, len(s.readings[deviceID]))
	copy(out, s.readings[deviceID])
	return out
}

// HealthCheck always reports healthy.
func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
