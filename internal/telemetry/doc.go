// Package telemetry provides durable storage for water-level readings.
//
// A Reading is one validated telemetry sample: water level, pump status and
// timestamp for a resolved device. Readings are append-only and immutable
// after creation; the gateway writes exactly one per valid inbound message.
//
// # Storage
//
// The production store writes to InfluxDB using the blocking write API.
// Blocking writes are deliberate: an append failure during ingestion is an
// unexpected condition that must surface to the pipeline synchronously so
// it can escalate, not vanish into an async batch. Telemetry is
// high-frequency and not retried by the gateway - redelivery is the
// device's responsibility.
//
// The in-memory store backs unit tests and local development without an
// InfluxDB instance.
//
// # Usage
//
//	store, err := telemetry.NewInfluxStore(cfg.Telemetry)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.Append(ctx, telemetry.Reading{
//	    DeviceID:   dev.ID,
//	    WaterLevel: 55.25,
//	    PumpStatus: telemetry.PumpOff,
//	    Timestamp:  time.Now().UTC(),
//	})
package telemetry
