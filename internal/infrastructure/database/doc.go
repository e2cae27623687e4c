// Package database provides the embedded SQLite store behind the state
// history.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations embedded into the binary
//   - Connection pooling and lifecycle management
//
// The service typically runs on the same small machine that drives the
// mount, so the store is a single local file: WAL mode keeps reads cheap
// while the recorder writes, and the busy timeout absorbs the occasional
// lock during pruning. All queries use parameterised statements and the
// database file is created owner read/write only.
//
// Usage:
//
//	db, err := database.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live in the migrations package at the repository root
// and are named YYYYMMDD_HHMMSS_description.up.sql with a matching
// .down.sql. Migrations are additive-only: new columns are NULLABLE or
// carry a DEFAULT so a rollback never strands data.
package database
