// Package bridge connects the observatory equipment tree to the MQTT bus.
//
// It owns three cooperating pieces:
//
//   - The message bridge: an unbounded outbound queue drained by a single
//     consumer goroutine. Workers enqueue; the drain loop publishes one
//     message at a time, at most once, and drops on publish failure.
//   - The worker supervisor: one poll goroutine per monitored device,
//     keyed by sys_id. Reconcile walks the tree, announces entities for
//     newly reachable devices and recreates workers that have died.
//     A worker that loses its device publishes availability OFF exactly
//     once and exits; the next reconcile pass replaces it.
//   - The command router: inbound bus commands are resolved against the
//     tree and dispatched to the kind-specific operation. A bad command
//     is logged and dropped, never fatal.
//
// Usage:
//
//	b, err := bridge.New(bridge.Options{
//		Observatory: obs,
//		Broker:      mqttClient,
//		Renderer:    pipeline,
//		Logger:      log,
//	})
//	if err != nil {
//		return err
//	}
//	if err := b.Start(ctx); err != nil {
//		return err
//	}
//	defer b.Stop()
//
// # Thread Safety
//
// The outbound queue is safe for concurrent producers with a single
// consumer. The equipment tree is read-only after construction, so
// workers and the router share it without locking. Worker bookkeeping
// is guarded by the supervisor's mutex.
//
// # Delivery Semantics
//
// Outbound delivery is at-most-once from this process's point of view:
// a failed publish is logged and the message discarded. Per-device
// ordering is preserved because each device's messages are enqueued by
// its own single-threaded poll loop and drained by a single consumer.
// No ordering holds across devices.
package bridge
