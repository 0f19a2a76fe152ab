package orchestrator

// #region imports
import (
	"time"

	"github.com/proofloop/proofloop/internal/proof"
)

// #endregion imports

// #region state

// State is a node in the session state machine. Apart from the
// proposer's output, every transition is a pure function of
// (current state, candidate, verdict).
type State string

const (
	StateAwaitingCandidate State = "awaiting_candidate"
	StateValidating        State = "validating"
	StateAccepted          State = "accepted"
	StateRejected          State = "rejected"
	StateBacktracking      State = "backtracking"
	StateFinalized         State = "finalized"
	StateAbandoned         State = "abandoned"
)

// #endregion state

// #region outcome

// Outcome is the terminal state of a session.
type Outcome string

const (
	OutcomeFinalized Outcome = "finalized"
	OutcomeAbandoned Outcome = "abandoned"
)

// #endregion outcome

// #region config

// Config bounds one reasoning session.
type Config struct {
	// MaxRetries is the rejected-candidate budget per frontier node
	// before backtracking fires.
	MaxRetries int

	// StepBudget caps the total number of candidate requests.
	StepBudget int

	// MinObservations feeds the enumerative induction policy.
	MinObservations int

	// ConfidenceThreshold is the orchestrator's own floor on the
	// declared confidence of accepted inductive steps.
	ConfidenceThreshold float64

	// ProposeTimeout bounds each generation call; a timeout is a
	// rejected candidate consuming one retry.
	ProposeTimeout time.Duration

	// Speculation > 1 generates and validates that many candidates
	// concurrently per round; commits stay serialized,
	// first-accepted-wins.
	Speculation int
}

// DefaultConfig returns the stock session bounds.
func DefaultConfig() Config {
	return Config{
		MaxRetries:          2,
		StepBudget:          24,
		MinObservations:     3,
		ConfidenceThreshold: 0.25,
		ProposeTimeout:      30 * time.Second,
		Speculation:         1,
	}
}

// #endregion config

// #region result

// Result reports a completed session: the exported proof on success,
// the furthest-reached partial graph on abandonment.
type Result struct {
	SessionID  string
	Outcome    Outcome
	Reason     string
	Snapshot   proof.Snapshot
	Steps      int
	Accepted   int
	Rejected   int
	Backtracks int
}

// #endregion result

// #region decision

// Decision is one provenance row: a single state-machine transition
// with its reason, recorded for audit.
type Decision struct {
	SessionID string
	Step      int
	State     State
	Action    string // "accept" | "reject" | "backtrack" | "finalize" | "abandon"
	Reason    string
	Candidate string
	NodeID    string
	CreatedAt time.Time
}

// Recorder receives decisions as they happen. Implementations must not
// block the session; recording failures are logged, never fatal.
type Recorder interface {
	RecordDecision(d Decision) error
}

// #endregion decision
