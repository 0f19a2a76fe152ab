package logging

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/proofloop/proofloop/internal/orchestrator"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE provenance_log (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		step        INTEGER NOT NULL,
		state       TEXT NOT NULL,
		action      TEXT NOT NULL,
		reason      TEXT,
		candidate   TEXT,
		node_id     TEXT,
		created_at  TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region record-decision-tests
func TestRecordDecision_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()
	r := NewSQLRecorder(db)

	d := orchestrator.Decision{
		SessionID: "s1",
		Step:      3,
		State:     orchestrator.StateRejected,
		Action:    "reject",
		Reason:    "form:undistributed_middle",
		Candidate: "All cats are dogs",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := r.RecordDecision(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM provenance_log").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var sessionID, action string
	db.QueryRow("SELECT session_id, action FROM provenance_log").Scan(&sessionID, &action)
	if sessionID != "s1" {
		t.Errorf("expected session_id 's1', got %q", sessionID)
	}
	if action != "reject" {
		t.Errorf("expected action 'reject', got %q", action)
	}
}

func TestRecordDecision_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()
	r := NewSQLRecorder(db)

	before := time.Now().UTC()
	err := r.RecordDecision(orchestrator.Decision{
		SessionID: "s2",
		State:     orchestrator.StateAccepted,
		Action:    "accept",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM provenance_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestRecordDecision_EmptyOptionalFields(t *testing.T) {
	db := setupDB(t)
	defer db.Close()
	r := NewSQLRecorder(db)

	err := r.RecordDecision(orchestrator.Decision{
		SessionID: "s3",
		State:     orchestrator.StateAbandoned,
		Action:    "abandon",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reason, candidate, nodeID sql.NullString
	db.QueryRow("SELECT reason, candidate, node_id FROM provenance_log").Scan(&reason, &candidate, &nodeID)
	if reason.Valid {
		t.Error("expected NULL reason for empty string")
	}
	if candidate.Valid {
		t.Error("expected NULL candidate for empty string")
	}
	if nodeID.Valid {
		t.Error("expected NULL node_id for empty string")
	}
}

func TestRecordDecision_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error
	r := NewSQLRecorder(db)

	err := r.RecordDecision(orchestrator.Decision{SessionID: "s4", Action: "accept"})
	if err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion record-decision-tests

// #region decisions-query-tests
func TestDecisions_OrderAndRoundTrip(t *testing.T) {
	db := setupDB(t)
	defer db.Close()
	r := NewSQLRecorder(db)

	actions := []string{"reject", "reject", "backtrack", "abandon"}
	for i, a := range actions {
		err := r.RecordDecision(orchestrator.Decision{
			SessionID: "s5",
			Step:      i + 1,
			State:     orchestrator.StateRejected,
			Action:    a,
			Reason:    "r",
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	// Another session's rows must not leak in.
	_ = r.RecordDecision(orchestrator.Decision{SessionID: "other", Action: "accept", State: orchestrator.StateAccepted})

	entries, err := r.Decisions("s5")
	if err != nil {
		t.Fatalf("decisions: %v", err)
	}
	if len(entries) != len(actions) {
		t.Fatalf("expected %d entries, got %d", len(actions), len(entries))
	}
	for i, e := range entries {
		if e.Action != actions[i] {
			t.Errorf("entry %d: expected action %q, got %q", i, actions[i], e.Action)
		}
		if e.Step != i+1 {
			t.Errorf("entry %d: expected step %d, got %d", i, i+1, e.Step)
		}
	}
}

// #endregion decisions-query-tests

// #region null-if-empty-tests
func TestNullIfEmpty_Empty(t *testing.T) {
	if result := nullIfEmpty(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestNullIfEmpty_NonEmpty(t *testing.T) {
	if result := nullIfEmpty("hello"); result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
