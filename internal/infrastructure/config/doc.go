// Package config provides configuration loading for the water-level gateway.
//
// Configuration is loaded in three layers, each overriding the previous:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. YAML file values (configs/config.yaml)
//  3. Environment variables (WATERLEVEL_* pattern)
//
// # Sections
//
//   - database:  SQLite device directory settings
//   - mqtt:      broker connection, auth, QoS, reconnect policy
//   - telemetry: InfluxDB reading store settings
//   - gateway:   command retry policy and delivery scheduler pool
//   - api:       ops HTTP server (health, metrics, websocket)
//   - websocket: subscriber connection tuning
//   - logging:   level/format/output
//   - security:  JWT secret for WebSocket subscriber tickets
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Security
//
// The JWT secret must never be committed to the config file in production;
// set WATERLEVEL_JWT_SECRET instead. Validation rejects secrets shorter
// than 32 characters.
package config
