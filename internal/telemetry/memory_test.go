package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Compile-time checks that both stores satisfy the interface.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*InfluxStore)(nil)
)

func TestMemoryStore_AppendAndLatest(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first := Reading{DeviceID: "dev-1", WaterLevel: 42.5, PumpStatus: PumpOff, Timestamp: base}
	second := Reading{DeviceID: "dev-1", WaterLevel: 55.0, PumpStatus: PumpOn, Timestamp: base.Add(time.Minute)}

	if err := store.Append(ctx, first); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, second); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	latest, err := store.Latest(ctx, "dev-1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}

	if latest.WaterLevel != 55.0 {
		t.Errorf("Latest().WaterLevel = %v, want 55.0", latest.WaterLevel)
	}
	if latest.PumpStatus != PumpOn {
		t.Errorf("Latest().PumpStatus = %q, want %q", latest.PumpStatus, PumpOn)
	}
}

func TestMemoryStore_Latest_OutOfOrderTimestamps(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Device-reported timestamps can arrive out of order.
	newer := Reading{DeviceID: "dev-1", WaterLevel: 60.0, PumpStatus: PumpOn, Timestamp: base.Add(time.Hour)}
	older := Reading{DeviceID: "dev-1", WaterLevel: 40.0, PumpStatus: PumpOff, Timestamp: base}

	if err := store.Append(ctx, newer); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, older); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	latest, err := store.Latest(ctx, "dev-1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.WaterLevel != 60.0 {
		t.Errorf("Latest().WaterLevel = %v, want newest-by-timestamp 60.0", latest.WaterLevel)
	}
}

func TestMemoryStore_Latest_NoReadings(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Latest(context.Background(), "dev-silent")
	if !errors.Is(err, ErrNoReadings) {
		t.Errorf("Latest() error = %v, want ErrNoReadings", err)
	}
}

func TestMemoryStore_IsolatesDevices(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	r := Reading{DeviceID: "dev-1", WaterLevel: 10.0, PumpStatus: PumpOff, Timestamp: time.Now()}
	if err := store.Append(ctx, r); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := store.Latest(ctx, "dev-2"); !errors.Is(err, ErrNoReadings) {
		t.Errorf("Latest() for other device error = %v, want ErrNoReadings", err)
	}

	if got := len(store.All("dev-1")); got != 1 {
		t.Errorf("All() returned %d readings, want 1", got)
	}
}
