// Package notify fans live device events out to WebSocket subscribers.
//
// The Hub owns the set of connected clients. Each client subscribes to
// per-device channels named "device/{deviceID}" and receives sensor
// updates, pump status changes and threshold confirmations as they happen.
//
// Delivery is best effort: a slow subscriber's buffer overflowing drops
// the message for that subscriber only, and errors never propagate back
// into the ingestion pipeline.
//
// Connections authenticate with a short-lived JWT ticket passed as a query
// parameter on the upgrade request. Ticket issuance belongs to the CRUD
// layer; this package only verifies.
package notify
