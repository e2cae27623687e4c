package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/astrolive/core/internal/infrastructure/database"
)

// Snapshot is one recorded state publication.
type Snapshot struct {
	ID         int64
	Component  string
	Kind       string
	State      map[string]any
	RecordedAt time.Time
}

// Store records component state snapshots and prunes old ones.
//
// Thread Safety: Store is safe for concurrent use; the underlying pool
// serialises writers.
type Store struct {
	db        *database.DB
	retention time.Duration
}

// New creates a Store on an opened database. The schema must already be
// migrated.
//
// Parameters:
//   - db: opened history database
//   - retention: how long snapshots are kept; zero disables pruning
//
// Returns:
//   - *Store: ready to record
func New(db *database.DB, retention time.Duration) *Store {
	return &Store{db: db, retention: retention}
}

// Record inserts one snapshot for a component.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - component: component system identifier, e.g. "obs.tele.ccd"
//   - kind: component kind, e.g. "camera"
//   - state: the attribute map as published
//
// Returns:
//   - error: If encoding or the insert fails
func (s *Store) Record(ctx context.Context, component, kind string, state map[string]any) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("history: encoding state for %s: %w", component, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO state_history (component, kind, state, recorded_at) VALUES (?, ?, ?, ?)",
		component,
		kind,
		string(encoded),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: recording %s: %w", component, err)
	}
	return nil
}

// Recent returns up to limit snapshots for a component, newest first.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - component: component system identifier
//   - limit: maximum snapshots to return
//
// Returns:
//   - []Snapshot: newest first, empty when none recorded
//   - error: If the query fails
func (s *Store) Recent(ctx context.Context, component string, limit int) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, component, kind, state, recorded_at FROM state_history WHERE component = ? ORDER BY id DESC LIMIT ?",
		component,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: querying %s: %w", component, err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var (
			snap       Snapshot
			encoded    string
			recordedAt string
		)
		if err := rows.Scan(&snap.ID, &snap.Component, &snap.Kind, &encoded, &recordedAt); err != nil {
			return nil, fmt.Errorf("history: scanning snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &snap.State); err != nil {
			return nil, fmt.Errorf("history: decoding snapshot %d: %w", snap.ID, err)
		}
		// The timestamp format is our own, written by Record.
		snap.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt) //nolint:errcheck // Format is controlled
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// Prune deletes snapshots older than the retention period.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - int64: number of snapshots deleted
//   - error: If the delete fails
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-s.retention).Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM state_history WHERE recorded_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("history: pruning: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: counting pruned rows: %w", err)
	}
	return deleted, nil
}
