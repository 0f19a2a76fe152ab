package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/proofloop/proofloop/internal/logic"
	"github.com/proofloop/proofloop/internal/orchestrator"
	"github.com/proofloop/proofloop/internal/proof"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id  TEXT PRIMARY KEY,
	target      TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	reason      TEXT,
	steps       INTEGER NOT NULL,
	accepted    INTEGER NOT NULL,
	rejected    INTEGER NOT NULL,
	backtracks  INTEGER NOT NULL,
	complete    INTEGER NOT NULL,
	root_id     TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS proof_nodes (
	session_id      TEXT NOT NULL,
	node_id         TEXT NOT NULL,
	position        INTEGER NOT NULL,
	kind            TEXT NOT NULL,
	statement_json  TEXT NOT NULL,
	argument_json   TEXT,
	step_json       TEXT,
	rule            TEXT,
	confidence      REAL NOT NULL,
	verdict         TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	PRIMARY KEY (session_id, node_id),
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE TABLE IF NOT EXISTS proof_edges (
	session_id  TEXT NOT NULL,
	child_id    TEXT NOT NULL,
	parent_id   TEXT NOT NULL,
	PRIMARY KEY (session_id, child_id, parent_id),
	FOREIGN KEY (session_id, child_id) REFERENCES proof_nodes(session_id, node_id),
	FOREIGN KEY (session_id, parent_id) REFERENCES proof_nodes(session_id, node_id)
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	step        INTEGER NOT NULL,
	state       TEXT NOT NULL,
	action      TEXT NOT NULL,
	reason      TEXT,
	candidate   TEXT,
	node_id     TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists finished sessions and their proof graphs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save-result
// SaveResult stores a finished session and its graph atomically.
func (s *Store) SaveResult(target logic.Proposition, res orchestrator.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	complete := 0
	if res.Snapshot.Complete {
		complete = 1
	}
	_, err = tx.Exec(
		`INSERT INTO sessions (session_id, target, outcome, reason, steps, accepted, rejected, backtracks, complete, root_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.SessionID, target.String(), string(res.Outcome), nullIfEmpty(res.Reason),
		res.Steps, res.Accepted, res.Rejected, res.Backtracks,
		complete, nullIfEmpty(res.Snapshot.Root),
		res.Snapshot.TakenAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, n := range res.Snapshot.Nodes {
		stmtJSON, err := json.Marshal(n.Statement)
		if err != nil {
			return fmt.Errorf("marshal statement: %w", err)
		}
		argJSON, err := marshalNullable(n.Argument)
		if err != nil {
			return fmt.Errorf("marshal argument: %w", err)
		}
		stepJSON, err := marshalNullable(n.Step)
		if err != nil {
			return fmt.Errorf("marshal step: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO proof_nodes (session_id, node_id, position, kind, statement_json, argument_json, step_json, rule, confidence, verdict, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.SessionID, n.ID, i, string(n.Kind), string(stmtJSON),
			argJSON, stepJSON, nullIfEmpty(n.Rule), n.Confidence,
			string(n.Verdict), n.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
		for _, pid := range n.Parents {
			_, err = tx.Exec(
				`INSERT INTO proof_edges (session_id, child_id, parent_id) VALUES (?, ?, ?)`,
				res.SessionID, n.ID, pid,
			)
			if err != nil {
				return fmt.Errorf("insert edge %s->%s: %w", n.ID, pid, err)
			}
		}
	}

	return tx.Commit()
}

// #endregion save-result

// #region load-result
// LoadResult reconstructs a stored session, graph included. Node order
// follows the stored topological positions.
func (s *Store) LoadResult(sessionID string) (orchestrator.Result, error) {
	var res orchestrator.Result
	var reason, rootID sql.NullString
	var complete int
	var takenStr string

	err := s.db.QueryRow(
		`SELECT session_id, outcome, reason, steps, accepted, rejected, backtracks, complete, root_id, created_at
		 FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&res.SessionID, &res.Outcome, &reason, &res.Steps, &res.Accepted,
		&res.Rejected, &res.Backtracks, &complete, &rootID, &takenStr)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	res.Reason = reason.String
	res.Snapshot.Root = rootID.String
	res.Snapshot.Complete = complete == 1
	res.Snapshot.TakenAt, _ = time.Parse(time.RFC3339Nano, takenStr)

	rows, err := s.db.Query(
		`SELECT node_id, kind, statement_json, argument_json, step_json, rule, confidence, verdict, created_at
		 FROM proof_nodes WHERE session_id = ? ORDER BY position`, sessionID,
	)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n proof.Node
		var stmtJSON string
		var argJSON, stepJSON, rule sql.NullString
		var createdStr string

		if err := rows.Scan(&n.ID, &n.Kind, &stmtJSON, &argJSON, &stepJSON,
			&rule, &n.Confidence, &n.Verdict, &createdStr); err != nil {
			return orchestrator.Result{}, fmt.Errorf("scan node: %w", err)
		}
		if err := json.Unmarshal([]byte(stmtJSON), &n.Statement); err != nil {
			return orchestrator.Result{}, fmt.Errorf("unmarshal statement: %w", err)
		}
		if argJSON.Valid {
			n.Argument = &logic.Argument{}
			if err := json.Unmarshal([]byte(argJSON.String), n.Argument); err != nil {
				return orchestrator.Result{}, fmt.Errorf("unmarshal argument: %w", err)
			}
		}
		if stepJSON.Valid {
			n.Step = &logic.InductiveStep{}
			if err := json.Unmarshal([]byte(stepJSON.String), n.Step); err != nil {
				return orchestrator.Result{}, fmt.Errorf("unmarshal step: %w", err)
			}
		}
		n.Rule = rule.String
		n.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		res.Snapshot.Nodes = append(res.Snapshot.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return orchestrator.Result{}, fmt.Errorf("load nodes: %w", err)
	}

	erows, err := s.db.Query(
		`SELECT child_id, parent_id FROM proof_edges WHERE session_id = ?`, sessionID,
	)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("load edges: %w", err)
	}
	defer erows.Close()

	parents := make(map[string][]string)
	for erows.Next() {
		var child, parent string
		if err := erows.Scan(&child, &parent); err != nil {
			return orchestrator.Result{}, fmt.Errorf("scan edge: %w", err)
		}
		parents[child] = append(parents[child], parent)
	}
	if err := erows.Err(); err != nil {
		return orchestrator.Result{}, fmt.Errorf("load edges: %w", err)
	}
	for i := range res.Snapshot.Nodes {
		res.Snapshot.Nodes[i].Parents = parents[res.Snapshot.Nodes[i].ID]
	}

	return res, nil
}

// #endregion load-result

// #region session-lookup
// Session returns the summary row for one session.
func (s *Store) Session(sessionID string) (SessionSummary, error) {
	var sum SessionSummary
	var reason sql.NullString
	var complete int
	var createdStr string
	err := s.db.QueryRow(
		`SELECT session_id, target, outcome, reason, steps, accepted, rejected, backtracks, complete, created_at
		 FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&sum.SessionID, &sum.Target, &sum.Outcome, &reason,
		&sum.Steps, &sum.Accepted, &sum.Rejected, &sum.Backtracks,
		&complete, &createdStr)
	if err != nil {
		return SessionSummary{}, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sum.Reason = reason.String
	sum.Complete = complete == 1
	sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return sum, nil
}

// #endregion session-lookup

// #region list-sessions
// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]SessionSummary, error) {
	rows, err := s.db.Query(
		`SELECT session_id, target, outcome, reason, steps, accepted, rejected, backtracks, complete, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var reason sql.NullString
		var complete int
		var createdStr string
		if err := rows.Scan(&sum.SessionID, &sum.Target, &sum.Outcome, &reason,
			&sum.Steps, &sum.Accepted, &sum.Rejected, &sum.Backtracks,
			&complete, &createdStr); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.Reason = reason.String
		sum.Complete = complete == 1
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// #endregion list-sessions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func marshalNullable(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case *logic.Argument:
		if x == nil {
			return nil, nil
		}
	case *logic.InductiveStep:
		if x == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// #endregion helpers
