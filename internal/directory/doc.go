// Package directory resolves device keys to registered devices.
//
// The device directory is the authority on which physical devices exist.
// Devices are created and owned by the backend CRUD layer; the gateway
// consumes the directory read-mostly: every inbound telemetry message is
// resolved against it before a reading is persisted, so a reading is never
// stored for a key that does not resolve.
//
// # Device Keys
//
// A device key is the opaque public identifier a physical device presents
// in its telemetry messages: a 36-character canonical UUID string
// (8-4-4-4-12 hex groups). It addresses the device on MQTT topics and is
// not a secret credential.
//
// # Storage
//
// The SQLite-backed repository shares the backend's database file. All
// queries use parameterised statements. The Repository interface allows
// in-memory substitutes for testing.
//
// # Usage
//
//	repo := directory.NewSQLiteRepository(db.DB)
//	dev, err := repo.FindByKey(ctx, key)
//	if errors.Is(err, directory.ErrDeviceNotFound) {
//	    // untrusted key - drop the message
//	}
package directory
