// Package history records published component state into the embedded
// SQLite store.
//
// Every state message a worker publishes can also be written here as a
// snapshot: the component system identifier, its kind, the JSON document
// as published, and when it was recorded. That gives a night's session a
// local replay log that survives broker restarts and needs no external
// database.
//
// The store prunes itself: snapshots older than the configured retention
// period are deleted in one pass, typically on the supervisor's reconcile
// cadence. A zero retention disables pruning.
package history
