package logging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/proofloop/proofloop/internal/orchestrator"
)

// #region recorder
// SQLRecorder writes session decisions to the provenance_log table.
// It satisfies the orchestrator's Recorder contract; failures are the
// caller's to log, never to fail the session on.
type SQLRecorder struct {
	db *sql.DB
}

// NewSQLRecorder wraps an already-migrated database handle.
func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

// RecordDecision appends one provenance row.
func (r *SQLRecorder) RecordDecision(d orchestrator.Decision) error {
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO provenance_log (session_id, step, state, action, reason, candidate, node_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.SessionID,
		d.Step,
		string(d.State),
		d.Action,
		nullIfEmpty(d.Reason),
		nullIfEmpty(d.Candidate),
		nullIfEmpty(d.NodeID),
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// #endregion recorder

// #region query
// Decisions returns the provenance trail of a session in the order the
// decisions were made.
func (r *SQLRecorder) Decisions(sessionID string) ([]ProvenanceEntry, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, step, state, action, reason, candidate, node_id, created_at
		 FROM provenance_log WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var entries []ProvenanceEntry
	for rows.Next() {
		var e ProvenanceEntry
		var reason, candidate, nodeID sql.NullString
		var createdStr string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Step, &e.State, &e.Action,
			&reason, &candidate, &nodeID, &createdStr); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Reason = reason.String
		e.Candidate = candidate.String
		e.NodeID = nodeID.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion query

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
