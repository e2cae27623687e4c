// Package tsdb provides VictoriaMetrics connectivity for AstroLive.
//
// It writes using InfluxDB line protocol over HTTP and queries using
// PromQL, with no client library beyond net/http.
//
// # Purpose
//
// This package is the alternative telemetry sink for deployments that
// already run a Prometheus-compatible stack. It stores the same data
// the influxdb package does:
//   - Component state telemetry (CCD temperature, pointing, focuser position)
//   - Frame metadata from captured images
//   - Bridge counters (worker restarts, queue depth)
//
// # Usage
//
//	cfg := config.TSDBConfig{
//	    Enabled:       true,
//	    URL:           "http://localhost:8428",
//	    BatchSize:     1000,
//	    FlushInterval: 1,
//	}
//
//	client, err := tsdb.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record a published component state
//	client.WriteStateMetrics("obs.tele.ccd", "camera", state)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Writes are batched internally and flushed on size threshold or timer.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are reported via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// Batch flush is a single HTTP POST with newline-delimited line protocol.
// VictoriaMetrics processes these with minimal overhead.
package tsdb
