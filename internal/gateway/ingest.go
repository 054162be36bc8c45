package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hydrosense/waterlevel-core/internal/directory"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/logging"
	"github.com/hydrosense/waterlevel-core/internal/infrastructure/metrics"
	"github.com/hydrosense/waterlevel-core/internal/telemetry"
)

// Water level bounds for inbound telemetry.
const (
	minWaterLevel = 0.0
	maxWaterLevel = 999.99
)

// Rejection reasons used for logging and metrics labels.
const (
	rejectDecode        = "decode"
	rejectMissingField  = "missing_field"
	rejectDeviceKey     = "device_key"
	rejectWaterLevel    = "water_level"
	rejectPumpStatus    = "pump_status"
	rejectUnknownDevice = "unknown_device"
)

// DeviceResolver resolves inbound device keys against the device directory.
type DeviceResolver interface {
	FindByKey(ctx context.Context, key string) (*directory.Device, error)
}

// ReadingAppender persists validated readings.
type ReadingAppender interface {
	Append(ctx context.Context, reading telemetry.Reading) error
}

// Sink receives live notifications for successfully stored readings.
// Delivery is best effort; implementations log their own failures.
type Sink interface {
	SendSensorUpdate(deviceID string, waterLevel float64, pumpStatus telemetry.PumpStatus, timestamp time.Time)
}

// telemetryMessage is the inbound wire document. Pointer fields distinguish
// absent or explicit-null fields from zero values.
type telemetryMessage struct {
	DeviceKey  *string  `json:"device_key"`
	WaterLevel *float64 `json:"water_level"`
	PumpStatus *string  `json:"pump_status"`
	Timestamp  *string  `json:"timestamp"`
}

// Ingestor validates and persists inbound telemetry.
//
// Ingestor is stateless across invocations and safe for concurrent use from
// multiple transport callbacks; any serialization the collaborators need is
// their own.
type Ingestor struct {
	codec   Codec
	devices DeviceResolver
	store   ReadingAppender
	sink    Sink
	logger  *logging.Logger
	metrics *metrics.Metrics
	nowFunc func() time.Time
}

// NewIngestor creates a telemetry ingestion pipeline.
//
// Parameters:
//   - devices: Device directory lookup
//   - store: Telemetry store for validated readings
//   - sink: Live notification fan-out (nil disables notifications)
//   - logger: Structured logger
//   - m: Gateway metrics (nil disables instrumentation)
func NewIngestor(devices DeviceResolver, store ReadingAppender, sink Sink, logger *logging.Logger, m *metrics.Metrics) *Ingestor {
	return &Ingestor{
		devices: devices,
		store:   store,
		sink:    sink,
		logger:  logger,
		metrics: m,
		nowFunc: time.Now,
	}
}

// Ingest processes one raw telemetry message from the transport.
//
// Validation failures are expected and frequent (hostile or malfunctioning
// devices): they are absorbed here with a debug log and a nil return, so a
// single bad device cannot disrupt the message stream. Only a failure after
// successful validation, such as the store rejecting the write, returns an
// error for the caller's supervision layer.
//
// Exactly one store write and at most one notification happen per valid
// message; every rejection path performs zero writes.
func (i *Ingestor) Ingest(ctx context.Context, payload []byte, topic string) error {
	var msg telemetryMessage
	if err := i.codec.Decode(payload, &msg); err != nil {
		i.reject(topic, rejectDecode, err)
		return nil
	}

	if msg.DeviceKey == nil || msg.WaterLevel == nil || msg.PumpStatus == nil {
		i.reject(topic, rejectMissingField, ErrMissingField)
		return nil
	}

	// Cheap format check before any directory lookup.
	if err := directory.ValidateKey(*msg.DeviceKey); err != nil {
		i.reject(topic, rejectDeviceKey, fmt.Errorf("%w: %w", ErrInvalidDeviceKey, err))
		return nil
	}

	level := *msg.WaterLevel
	if math.IsNaN(level) || math.IsInf(level, 0) || level < minWaterLevel || level > maxWaterLevel {
		i.reject(topic, rejectWaterLevel, fmt.Errorf("%w: %v", ErrInvalidWaterLevel, level))
		return nil
	}

	status, err := telemetry.ParsePumpStatus(*msg.PumpStatus)
	if err != nil {
		i.reject(topic, rejectPumpStatus, err)
		return nil
	}

	device, err := i.devices.FindByKey(ctx, *msg.DeviceKey)
	if err != nil {
		if errors.Is(err, directory.ErrDeviceNotFound) {
			i.reject(topic, rejectUnknownDevice, ErrUnknownDevice)
			return nil
		}
		// A directory infrastructure failure is not a validation verdict.
		return fmt.Errorf("gateway: device lookup failed: %w", err)
	}

	// The one field allowed to degrade: a clockless device must not lose
	// a valid reading over a bad timestamp.
	timestamp := i.effectiveTimestamp(msg.Timestamp, topic)

	reading := telemetry.Reading{
		DeviceID:   device.ID,
		WaterLevel: level,
		PumpStatus: status,
		Timestamp:  timestamp,
	}

	if err := i.store.Append(ctx, reading); err != nil {
		return fmt.Errorf("gateway: reading persistence failed: %w", err)
	}

	i.metrics.ReadingStored()
	i.logger.Debug("reading stored",
		"device_id", device.ID,
		"water_level", level,
		"pump_status", string(status),
	)

	if i.sink != nil {
		i.sink.SendSensorUpdate(device.ID, level, status, timestamp)
	}

	return nil
}

// effectiveTimestamp parses the optional device-reported timestamp,
// substituting the current time on absence or parse failure.
func (i *Ingestor) effectiveTimestamp(raw *string, topic string) time.Time {
	if raw == nil {
		return i.nowFunc().UTC()
	}

	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		i.logger.Debug("unparseable telemetry timestamp, using ingestion time",
			"topic", topic,
			"timestamp", *raw,
		)
		return i.nowFunc().UTC()
	}

	return parsed.UTC()
}

// reject logs and counts an absorbed validation failure.
func (i *Ingestor) reject(topic, reason string, err error) {
	i.metrics.ReadingRejected(reason)
	i.logger.Debug("telemetry message rejected",
		"topic", topic,
		"reason", reason,
		"error", err,
	)
}
