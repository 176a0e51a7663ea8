// Package telemetry provides InfluxDB-backed property state telemetry for Lumen Core.
//
// It wraps the official influxdb-client-go v2 library for connection
// management and non-blocking batched writes.
//
// # Purpose
//
// Every successful state publication for a numeric property is mirrored to
// the time-series database, giving operators a queryable history of actual
// values and pending-flag transitions without touching the runtime state
// store.
//
// # Usage
//
//	client, err := telemetry.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // ErrDisabled is a normal deployment mode, not a failure
//	}
//	defer client.Close()
//
//	client.WritePropertyReading(propertyID, "channel", 21.5, true)
//
// # Thread Safety
//
// All Client methods are safe for concurrent use; writes are batched and
// flushed asynchronously by the underlying library.
package telemetry
