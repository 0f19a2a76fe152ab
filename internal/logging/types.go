package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row of the provenance_log table: one
// session state transition with the reason it happened.
type ProvenanceEntry struct {
	ID        int64
	SessionID string
	Step      int
	State     string
	Action    string // "accept" | "reject" | "backtrack" | "finalize" | "abandon"
	Reason    string
	Candidate string
	NodeID    string
	CreatedAt time.Time
}

// #endregion provenance-entry
