package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the water-level MQTT contract.
//
// Device-facing topics use the scheme devices/{deviceKey}/{function}/{action}.
// The device key is the opaque UUID the hardware presents; it is not a secret
// credential, only an address.
const (
	// TopicPrefixDevices is the base for all device-facing topics.
	TopicPrefixDevices = "devices"

	// TopicPrefixGateway is the base for gateway status topics.
	TopicPrefixGateway = "waterlevel/gateway"
)

// Topics provides builders for the gateway's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.PumpStart("7f3de8a1-...")
//	// Returns: "devices/7f3de8a1-.../pump/start"
type Topics struct{}

// SensorData returns the inbound telemetry topic for a specific device.
//
// Example: devices/7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a6b/sensor/data
func (Topics) SensorData(deviceKey string) string {
	return fmt.Sprintf("%s/%s/sensor/data", TopicPrefixDevices, deviceKey)
}

// PumpStart returns the outbound pump start command topic for a device.
//
// Example: devices/7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a6b/pump/start
func (Topics) PumpStart(deviceKey string) string {
	return fmt.Sprintf("%s/%s/pump/start", TopicPrefixDevices, deviceKey)
}

// ThresholdUpdate returns the outbound threshold update topic for a device.
//
// Example: devices/7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a6b/thresholds/update
func (Topics) ThresholdUpdate(deviceKey string) string {
	return fmt.Sprintf("%s/%s/thresholds/update", TopicPrefixDevices, deviceKey)
}

// GatewayStatus returns the gateway online/offline status topic.
//
// Example: waterlevel/gateway/status
func (Topics) GatewayStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixGateway)
}

// AllSensorData returns a pattern matching telemetry from every device.
//
// Pattern: devices/+/sensor/data
func (Topics) AllSensorData() string {
	return fmt.Sprintf("%s/+/sensor/data", TopicPrefixDevices)
}

// DeviceKeyFromSensorTopic extracts the device key segment from an inbound
// telemetry topic. The key is not validated here; format checks belong to
// the ingestion pipeline.
//
// Returns the empty string when the topic does not match the sensor scheme.
func (Topics) DeviceKeyFromSensorTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefixDevices || parts[2] != "sensor" || parts[3] != "data" {
		return ""
	}
	return parts[1]
}
