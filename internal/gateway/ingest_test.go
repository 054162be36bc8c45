package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hydrosense/waterlevel-core/internal/directory"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/logging"
	"github.com/hydrosense/waterlevel-core/internal/telemetry"
)

// fakeResolver serves devices from a map and counts lookups.
type fakeResolver struct {
	mu      sync.Mutex
	devices map[string]*directory.Device
	lookups int
	err     error
}

func (r *fakeResolver) FindByKey(_ context.Context, key string) (*directory.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	dev, ok := r.devices[key]
	if !ok {
		return nil, directory.ErrDeviceNotFound
	}
	return dev, nil
}

func (r *fakeResolver) lookupCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}

// failingStore rejects every append.
type failingStore struct{}

func (failingStore) Append(context.Context, telemetry.Reading) error {
	return errors.New("influxdb write rejected")
}

// recordingSink captures notifications.
type recordingSink struct {
	mu            sync.Mutex
	notifications []telemetry.Reading
}

func (s *recordingSink) SendSensorUpdate(deviceID string, waterLevel float64, pumpStatus telemetry.PumpStatus, timestamp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, telemetry.Reading{
		DeviceID:   deviceID,
		WaterLevel: waterLevel,
		PumpStatus: pumpStatus,
		Timestamp:  timestamp,
	})
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

func testResolver() *fakeResolver {
	return &fakeResolver{
		devices: map[string]*directory.Device{
			testDeviceKey: {ID: "dev-1", Key: testDeviceKey, Name: "Cistern A"},
		},
	}
}

func testTopic() string {
	return "devices/" + testDeviceKey + "/sensor/data"
}

func TestIngestor_ValidMessageWithoutTimestamp(t *testing.T) {
	resolver := testResolver()
	store := telemetry.NewMemoryStore()
	sink := &recordingSink{}
	ing := NewIngestor(resolver, store, sink, logging.Default(), nil)

	before := time.Now().UTC()
	payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":55.25,"pump_status":"OFF"}`)

	if err := ing.Ingest(context.Background(), payload, testTopic()); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	stored := store.All("dev-1")
	if len(stored) != 1 {
		t.Fatalf("stored %d readings, want 1", len(stored))
	}

	reading := stored[0]
	if reading.WaterLevel != 55.25 {
		t.Errorf("WaterLevel = %v, want 55.25", reading.WaterLevel)
	}
	if reading.PumpStatus != telemetry.PumpOff {
		t.Errorf("PumpStatus = %q, want OFF", reading.PumpStatus)
	}
	if reading.Timestamp.Before(before) || reading.Timestamp.After(time.Now().UTC()) {
		t.Errorf("Timestamp = %v, want ingestion time near now", reading.Timestamp)
	}

	if sink.count() != 1 {
		t.Errorf("notifications = %d, want 1", sink.count())
	}
}

func TestIngestor_DeviceReportedTimestampPreserved(t *testing.T) {
	resolver := testResolver()
	store := telemetry.NewMemoryStore()
	ing := NewIngestor(resolver, store, nil, logging.Default(), nil)

	payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":10,"pump_status":"ON","timestamp":"2026-08-01T09:30:00Z"}`)
	if err := ing.Ingest(context.Background(), payload, testTopic()); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	stored := store.All("dev-1")
	if len(stored) != 1 {
		t.Fatalf("stored %d readings, want 1", len(stored))
	}

	want := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	if !stored[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", stored[0].Timestamp, want)
	}
}

func TestIngestor_BadTimestampDegradesToNow(t *testing.T) {
	resolver := testResolver()
	store := telemetry.NewMemoryStore()
	ing := NewIngestor(resolver, store, nil, logging.Default(), nil)

	before := time.Now().UTC()
	payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":10,"pump_status":"ON","timestamp":"last tuesday"}`)
	if err := ing.Ingest(context.Background(), payload, testTopic()); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	stored := store.All("dev-1")
	if len(stored) != 1 {
		t.Fatalf("stored %d readings, want 1 (bad timestamp alone must not reject)", len(stored))
	}
	if stored[0].Timestamp.Before(before) {
		t.Errorf("Timestamp = %v, want substituted ingestion time", stored[0].Timestamp)
	}
}

func TestIngestor_RejectionPathsAreAbsorbed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "malformed json", payload: `{"device_key":`},
		{name: "empty payload", payload: ``},
		{name: "missing device key", payload: `{"water_level":55.25,"pump_status":"OFF"}`},
		{name: "null device key", payload: `{"device_key":null,"water_level":55.25,"pump_status":"OFF"}`},
		{name: "missing water level", payload: `{"device_key":"` + testDeviceKey + `","pump_status":"OFF"}`},
		{name: "missing pump status", payload: `{"device_key":"` + testDeviceKey + `","water_level":55.25}`},
		{name: "short device key", payload: `{"device_key":"abc","water_level":55.25,"pump_status":"OFF"}`},
		{name: "non uuid device key", payload: `{"device_key":"7f3de8a10b524d6e9f001c2d3e4f5a6bXXXX","water_level":55.25,"pump_status":"OFF"}`},
		{name: "negative water level", payload: `{"device_key":"` + testDeviceKey + `","water_level":-0.01,"pump_status":"OFF"}`},
		{name: "water level above ceiling", payload: `{"device_key":"` + testDeviceKey + `","water_level":1000.0,"pump_status":"OFF"}`},
		{name: "unrecognized pump status", payload: `{"device_key":"` + testDeviceKey + `","water_level":55.25,"pump_status":"RUNNING"}`},
		{name: "empty pump status", payload: `{"device_key":"` + testDeviceKey + `","water_level":55.25,"pump_status":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := testResolver()
			store := telemetry.NewMemoryStore()
			sink := &recordingSink{}
			ing := NewIngestor(resolver, store, sink, logging.Default(), nil)

			if err := ing.Ingest(context.Background(), []byte(tt.payload), testTopic()); err != nil {
				t.Errorf("Ingest() error = %v, want absorbed (nil)", err)
			}
			if got := len(store.All("dev-1")); got != 0 {
				t.Errorf("stored %d readings, want 0 on rejection", got)
			}
			if sink.count() != 0 {
				t.Errorf("notifications = %d, want 0 on rejection", sink.count())
			}
		})
	}
}

func TestIngestor_BadKeySkipsDirectoryLookup(t *testing.T) {
	resolver := testResolver()
	store := telemetry.NewMemoryStore()
	ing := NewIngestor(resolver, store, nil, logging.Default(), nil)

	payload := []byte(`{"device_key":"not-a-uuid-at-all","water_level":55.25,"pump_status":"OFF"}`)
	if err := ing.Ingest(context.Background(), payload, testTopic()); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if resolver.lookupCount() != 0 {
		t.Errorf("directory lookups = %d, want 0 for malformed key", resolver.lookupCount())
	}
}

func TestIngestor_UnknownDeviceAbsorbed(t *testing.T) {
	resolver := &fakeResolver{devices: map[string]*directory.Device{}}
	store := telemetry.NewMemoryStore()
	ing := NewIngestor(resolver, store, nil, logging.Default(), nil)

	payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":55.25,"pump_status":"OFF"}`)
	if err := ing.Ingest(context.Background(), payload, testTopic()); err != nil {
		t.Errorf("Ingest() error = %v, want absorbed (nil) for unknown device", err)
	}
	if got := len(store.All("dev-1")); got != 0 {
		t.Errorf("stored %d readings, want 0", got)
	}
}

func TestIngestor_DirectoryFailurePropagates(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("database locked")}
	store := telemetry.NewMemoryStore()
	ing := NewIngestor(resolver, store, nil, logging.Default(), nil)

	payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":55.25,"pump_status":"OFF"}`)
	if err := ing.Ingest(context.Background(), payload, testTopic()); err == nil {
		t.Error("Ingest() error = nil, want propagated infrastructure failure")
	}
}

func TestIngestor_StoreFailurePropagates(t *testing.T) {
	resolver := testResolver()
	sink := &recordingSink{}
	ing := NewIngestor(resolver, failingStore{}, sink, logging.Default(), nil)

	payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":55.25,"pump_status":"OFF"}`)
	err := ing.Ingest(context.Background(), payload, testTopic())
	if err == nil {
		t.Fatal("Ingest() error = nil, want propagated store failure")
	}
	if sink.count() != 0 {
		t.Errorf("notifications = %d, want 0 when the reading was not stored", sink.count())
	}
}

func TestIngestor_WaterLevelBoundaries(t *testing.T) {
	for _, level := range []string{"0.0", "999.99"} {
		t.Run("level "+level, func(t *testing.T) {
			resolver := testResolver()
			store := telemetry.NewMemoryStore()
			ing := NewIngestor(resolver, store, nil, logging.Default(), nil)

			payload := []byte(`{"device_key":"` + testDeviceKey + `","water_level":` + level + `,"pump_status":"UNKNOWN"}`)
			if err := ing.Ingest(context.Background(), payload, testTopic()); err != nil {
				t.Fatalf("Ingest() error = %v", err)
			}
			if got := len(store.All("dev-1")); got != 1 {
				t.Errorf("stored %d readings, want 1 at boundary", got)
			}
		})
	}
}
