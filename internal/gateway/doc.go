// Package gateway implements the device telemetry and command gateway.
//
// The gateway sits between untrusted field devices on MQTT and the rest of
// the system. It has two responsibilities:
//
//   - Ingestion: inbound telemetry is decoded, validated field by field,
//     resolved against the device directory, persisted as a Reading and
//     fanned out to live subscribers. Malformed input is absorbed and
//     logged; a hostile or broken device must never disrupt the stream.
//
//   - Dispatch: administrator commands (pump start, threshold update) are
//     serialized and published to the device's command topic with bounded
//     retries and exponential backoff. The caller gets a synchronous
//     true/false outcome within a bounded wallclock budget.
//
// Retries are delayed through a bounded Scheduler so a burst of failing
// deliveries cannot exhaust resources or starve earlier retries.
//
// # Trust Model
//
// Devices are unauthenticated. The device key in a telemetry payload is an
// address, not a credential; the only gate is that the key resolves in the
// device directory. Every inbound field is validated before any collaborator
// is touched.
package gateway
