// Package mqtt provides MQTT client connectivity for the water-level gateway.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The gateway uses MQTT as the link between physical water-level devices and
// the backend. Devices publish telemetry to devices/{key}/sensor/data; the
// gateway publishes commands to devices/{key}/pump/start and
// devices/{key}/thresholds/update. The broker is trusted for delivery,
// ordering within a topic, and reconnection - this package layers the
// application message contract on top, nothing more.
//
//	Devices ↔ MQTT Broker ↔ Water-Level Gateway
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Telemetry payloads are untrusted input; validation happens downstream
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to telemetry from all devices
//	err = client.Subscribe(mqtt.Topics{}.AllSensorData(), 1,
//	    func(topic string, payload []byte) error {
//	        return pipeline.Ingest(payload, topic)
//	    })
//
//	// Publish a command
//	topic := mqtt.Topics{}.PumpStart(deviceKey)
//	client.Publish(topic, payload, 1, false)
package mqtt
