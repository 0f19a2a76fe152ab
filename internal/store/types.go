package store

import "time"

// #region session-summary
// SessionSummary is one row of the sessions table, without the graph.
type SessionSummary struct {
	SessionID  string
	Target     string
	Outcome    string
	Reason     string
	Steps      int
	Accepted   int
	Rejected   int
	Backtracks int
	Complete   bool
	CreatedAt  time.Time
}

// #endregion session-summary
