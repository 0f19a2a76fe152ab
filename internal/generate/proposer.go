package generate

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/proofloop/proofloop/internal/logic"
	"github.com/proofloop/proofloop/internal/proof"
)

// #endregion imports

// #region errors

// ErrScriptExhausted is returned by the scripted proposer when no
// candidates remain.
var ErrScriptExhausted = errors.New("scripted proposer exhausted")

// #endregion errors

// #region candidate

// CandidateKind discriminates the two step shapes a proposer may emit.
type CandidateKind string

const (
	KindDeductive CandidateKind = "deductive"
	KindInductive CandidateKind = "inductive"
)

// Candidate is one proposed reasoning step, already structured. The
// core never sees raw model text: everything crosses the parse
// boundary in proposer implementations first.
type Candidate struct {
	Kind     CandidateKind
	Argument *logic.Argument
	Step     *logic.InductiveStep
	Summary  string
}

// Conclusion returns the proposition the candidate claims to establish.
func (c Candidate) Conclusion() logic.Proposition {
	if c.Kind == KindInductive && c.Step != nil {
		return c.Step.Conclusion
	}
	if c.Argument != nil {
		return c.Argument.Conclusion
	}
	return logic.Proposition{}
}

// Fingerprint is a stable memoization key for the candidate.
func (c Candidate) Fingerprint() string {
	if c.Kind == KindInductive && c.Step != nil {
		return "i:" + c.Step.Fingerprint()
	}
	if c.Argument != nil {
		return "d:" + c.Argument.Fingerprint()
	}
	return "empty"
}

func (c Candidate) String() string {
	if c.Kind == KindInductive && c.Step != nil {
		return c.Step.String()
	}
	if c.Argument != nil {
		return c.Argument.String()
	}
	return "<empty candidate>"
}

// #endregion candidate

// #region request

// Request carries the session context handed to the proposer on each
// call: the target, the given axioms, a read-only snapshot of the
// proof so far, and the rejection reason from the previous attempt.
type Request struct {
	Target   logic.Proposition
	Axioms   []logic.Proposition
	Snapshot proof.Snapshot
	Feedback string
}

// #endregion request

// #region proposer

// Proposer is the generation collaborator contract. Propose must honor
// ctx cancellation and be retryable: a retried call is a new
// independent candidate from the orchestrator's perspective.
type Proposer interface {
	Propose(ctx context.Context, req Request) (Candidate, error)
}

// #endregion proposer

// #region scripted

// ScriptedProposer replays a fixed candidate sequence. Used by the
// replay harness and tests; deterministic, offline, and safe under
// speculative concurrent calls.
type ScriptedProposer struct {
	mu         sync.Mutex
	candidates []Candidate
	next       int
}

// NewScriptedProposer wraps a candidate script.
func NewScriptedProposer(candidates []Candidate) *ScriptedProposer {
	return &ScriptedProposer{candidates: candidates}
}

// Propose returns the next scripted candidate.
func (s *ScriptedProposer) Propose(ctx context.Context, _ Request) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.candidates) {
		return Candidate{}, fmt.Errorf("candidate %d: %w", s.next, ErrScriptExhausted)
	}
	c := s.candidates[s.next]
	s.next++
	return c, nil
}

// Remaining reports how many scripted candidates are left.
func (s *ScriptedProposer) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.candidates) - s.next
}

// #endregion scripted
