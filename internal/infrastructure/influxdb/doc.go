// Package influxdb records observatory telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with the connection
// management, batched writing, and health monitoring patterns used across
// the service.
//
// # Purpose
//
// Time-series storage for the numeric side of published state:
//   - CCD temperature and cooler power over a session
//   - Mount pointing, focuser position, guide rates
//   - Switch port levels and safety flags
//
// The MQTT state topics carry the live values; this package keeps the
// same numbers queryable after the fact for trend charts and session
// review.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // influxdb.ErrDisabled when turned off in config
//	}
//	defer client.Close()
//
//	client.WriteStateMetrics("obs.tele.ccd", "camera", state)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors surface through the
// SetOnError callback. Connection and health check errors are returned
// directly.
//
// # Performance
//
// Writes are batched according to the batch_size and flush_interval
// settings, which keeps a polling fleet of device workers from issuing
// one HTTP request per state publication.
package influxdb
