package telemetry

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hydrosense/waterlevel-core/internal/infrastructure/config"
)

// Default timeouts for InfluxDB operations.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second
)

// measurementReadings is the InfluxDB measurement holding device readings.
const measurementReadings = "water_level"

// InfluxStore persists readings in InfluxDB v2.
//
// Writes use the blocking write API: Append returns only once the point is
// accepted by the server, so a store failure surfaces to the caller on the
// ingestion path rather than in an async error channel.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type InfluxStore struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	cfg      config.TelemetryConfig
}

// NewInfluxStore connects to InfluxDB and returns a ready store.
//
// It performs the following setup:
//  1. Creates the client with token authentication
//  2. Verifies connectivity with a ping
//  3. Configures the blocking write API and the query API
//
// Parameters:
//   - cfg: Telemetry configuration from config.yaml
//
// Returns:
//   - *InfluxStore: Connected store ready for use
//   - error: If the connection or health ping fails
func NewInfluxStore(cfg config.TelemetryConfig) (*InfluxStore, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	return &InfluxStore{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		queryAPI: client.QueryAPI(cfg.Org),
		cfg:      cfg,
	}, nil
}

// Append persists a single reading synchronously.
//
// The point is tagged by device ID and carries the water level and pump
// status as fields, timestamped with the reading's effective time.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - reading: The validated reading to persist
//
// Returns:
//   - error: ErrAppendFailed (wrapped) if the server rejects the write
func (s *InfluxStore) Append(ctx context.Context, reading Reading) error {
	point := write.NewPoint(
		measurementReadings,
		map[string]string{
			"device_id": reading.DeviceID,
		},
		map[string]interface{}{
			"water_level": reading.WaterLevel,
			"pump_status": string(reading.PumpStatus),
		},
		reading.Timestamp,
	)

	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}

	return nil
}

// Latest returns the most recent reading for a device.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - deviceID: The device to query
//
// Returns:
//   - Reading: The newest stored reading
//   - error: ErrNoReadings if the device has never reported,
//     ErrQueryFailed (wrapped) on query errors
func (s *InfluxStore) Latest(ctx context.Context, deviceID string) (Reading, error) {
	flux := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: 0)
		  |> filter(fn: (r) => r._measurement == %q and r.device_id == %q)
		  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
		  |> sort(columns: ["_time"], desc: true)
		  |> limit(n: 1)`,
		s.cfg.Bucket, measurementReadings, deviceID)

	result, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer result.Close()

	if !result.Next() {
		if result.Err() != nil {
			return Reading{}, fmt.Errorf("%w: %w", ErrQueryFailed, result.Err())
		}
		return Reading{}, fmt.Errorf("%w: %s", ErrNoReadings, deviceID)
	}

	record := result.Record()

	reading := Reading{
		DeviceID:  deviceID,
		Timestamp: record.Time(),
	}
	if level, ok := record.ValueByKey("water_level").(float64); ok {
		reading.WaterLevel = level
	}
	if status, ok := record.ValueByKey("pump_status").(string); ok {
		reading.PumpStatus = PumpStatus(status)
	} else {
		reading.PumpStatus = PumpUnknown
	}

	return reading, nil
}

// HealthCheck verifies the InfluxDB connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *InfluxStore) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := s.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("telemetry health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("telemetry health check failed: server not healthy")
	}

	return nil
}

// Close shuts down the underlying InfluxDB client.
//
// Blocking writes have no pending buffer, so there is nothing to flush.
func (s *InfluxStore) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
