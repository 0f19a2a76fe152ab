package orchestrator

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/proofloop/proofloop/internal/generate"
	"github.com/proofloop/proofloop/internal/induction"
	"github.com/proofloop/proofloop/internal/logic"
	"github.com/proofloop/proofloop/internal/proof"
	"github.com/proofloop/proofloop/internal/syllogism"
)

// #endregion imports

// #region orchestrator

// Orchestrator drives reasoning sessions: it requests candidate steps
// from the proposer, validates them, commits accepted steps to the
// proof graph, and manages retry and backtracking. Sessions are
// independent; one Orchestrator may run them sequentially or from
// separate goroutines, each session owning its own graph.
type Orchestrator struct {
	proposer generate.Proposer
	checker  *induction.Checker
	config   Config
	verdicts *gocache.Cache // fingerprint → screened, memoized pure verdicts
	recorder Recorder
}

// New creates an orchestrator around a proposer.
func New(proposer generate.Proposer, config Config) *Orchestrator {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultConfig().MaxRetries
	}
	if config.StepBudget <= 0 {
		config.StepBudget = DefaultConfig().StepBudget
	}
	if config.ProposeTimeout <= 0 {
		config.ProposeTimeout = DefaultConfig().ProposeTimeout
	}
	if config.Speculation <= 0 {
		config.Speculation = 1
	}
	return &Orchestrator{
		proposer: proposer,
		checker:  induction.NewChecker(induction.Policy{MinObservations: config.MinObservations}),
		config:   config,
		verdicts: gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// SetRecorder attaches a provenance recorder.
func (o *Orchestrator) SetRecorder(r Recorder) {
	o.recorder = r
}

// #endregion orchestrator

// #region session

// session is the mutable state of one run.
type session struct {
	id       string
	target   logic.Proposition
	axioms   []logic.Proposition
	graph    *proof.Graph
	frontier []string // derivation-path tips (stack) for retry bookkeeping and backtracking
	retries  map[string]int
	feedback string
	result   Result
}

const axiomFrontierKey = "axioms"

func (s *session) frontierKey() string {
	if len(s.frontier) == 0 {
		return axiomFrontierKey
	}
	return s.frontier[len(s.frontier)-1]
}

// #endregion session

// #region run

// Run executes one reasoning session toward the target conclusion.
// On success the result carries the exported proof; on abandonment it
// carries the furthest-reached partial graph. Structural graph errors
// are returned as errors and are fatal to the session.
func (o *Orchestrator) Run(ctx context.Context, target logic.Proposition, axioms []logic.Proposition) (Result, error) {
	s := &session{
		id:      ulid.Make().String(),
		target:  target,
		axioms:  axioms,
		graph:   proof.NewGraph(),
		retries: make(map[string]int),
	}
	s.result.SessionID = s.id

	for _, ax := range axioms {
		if _, err := s.graph.AddNode(proof.Node{
			Kind:      proof.KindAxiom,
			Statement: ax,
			Rule:      "given",
			Verdict:   proof.VerdictValid,
		}); err != nil {
			return Result{}, fmt.Errorf("seed axiom %s: %w", ax, err)
		}
	}
	log.Printf("[ORCH] session %s: target=%q axioms=%d budget=%d", s.id, target, len(axioms), o.config.StepBudget)

	for {
		if err := ctx.Err(); err != nil {
			return o.cancel(s, err)
		}
		if s.result.Steps >= o.config.StepBudget {
			return o.abandon(s, "step budget exhausted"), nil
		}

		done, err := o.round(ctx, s)
		if err != nil {
			return Result{}, err
		}
		if done {
			return s.result, nil
		}
	}
}

// #endregion run

// #region round

// round performs one awaiting_candidate → validating → accepted |
// rejected cycle, speculatively when configured. Returns done=true on
// a terminal transition.
func (o *Orchestrator) round(ctx context.Context, s *session) (bool, error) {
	k := o.config.Speculation
	if remaining := o.config.StepBudget - s.result.Steps; k > remaining {
		k = remaining
	}

	screens := o.speculate(ctx, s, k)
	s.result.Steps += k

	// Serialized commit phase: first accepted wins, later speculative
	// results for this frontier node are discarded.
	var firstReject *screened
	for i := range screens {
		sc := &screens[i]
		if !sc.ok {
			if firstReject == nil {
				firstReject = sc
			}
			continue
		}
		nodeID, reason, err := o.commit(s, sc)
		if err != nil {
			return false, err
		}
		if reason != "" {
			sc.ok = false
			sc.reason = reason
			if firstReject == nil {
				firstReject = sc
			}
			continue
		}
		// Accepted.
		s.result.Accepted++
		s.feedback = ""
		o.record(s, StateAccepted, "accept", sc.rule, sc.candidate, nodeID)
		log.Printf("[ORCH] session %s: accept %s via %s", s.id, sc.candidate.Conclusion(), sc.rule)

		if sc.candidate.Conclusion().Equal(s.target) {
			return true, o.finalize(s, nodeID)
		}
		s.frontier = append(s.frontier, nodeID)
		return false, nil
	}

	// Whole round rejected: one retry against the current frontier node.
	reason := "no candidate produced"
	var cand generate.Candidate
	if firstReject != nil {
		reason = firstReject.reason
		cand = firstReject.candidate
	}
	return o.reject(s, cand, reason), nil
}

// speculate generates and screens k candidates. Validators are pure,
// so screening runs concurrently; only the commit phase is serial.
func (o *Orchestrator) speculate(ctx context.Context, s *session, k int) []screened {
	req := generate.Request{
		Target:   s.target,
		Axioms:   s.axioms,
		Snapshot: s.graph.Snapshot(),
		Feedback: s.feedback,
	}

	screens := make([]screened, k)
	if k == 1 {
		screens[0] = o.proposeAndScreen(ctx, req)
		return screens
	}

	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			screens[i] = o.proposeAndScreen(ctx, req)
		}(i)
	}
	wg.Wait()
	return screens
}

// #endregion round

// #region screen

// screened is a candidate plus its pure validation outcome.
type screened struct {
	candidate  generate.Candidate
	ok         bool
	reason     string
	rule       string
	confidence float64
}

// proposeAndScreen runs one bounded generation call and the pure
// validation of its result. A timeout or transport failure screens as
// a rejection, consuming one retry like any other bad candidate.
func (o *Orchestrator) proposeAndScreen(ctx context.Context, req generate.Request) screened {
	callCtx, cancel := context.WithTimeout(ctx, o.config.ProposeTimeout)
	defer cancel()

	candidate, err := o.proposer.Propose(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return screened{reason: "propose timeout"}
		}
		return screened{reason: fmt.Sprintf("propose failed: %v", err)}
	}
	return o.screen(candidate)
}

// screen applies the stateless validators, memoized by fingerprint:
// identical candidates always screen identically.
func (o *Orchestrator) screen(candidate generate.Candidate) screened {
	key := candidate.Fingerprint()
	if cached, hit := o.verdicts.Get(key); hit {
		sc := cached.(screened)
		sc.candidate = candidate
		return sc
	}

	var sc screened
	switch candidate.Kind {
	case generate.KindDeductive:
		v := syllogism.Validate(*candidate.Argument)
		if v.Valid {
			sc = screened{ok: true, rule: syllogism.MoodName(*candidate.Argument), confidence: 1.0}
		} else {
			sc = screened{reason: fmt.Sprintf("%s: %s", v.Reason, v.Detail)}
		}
	case generate.KindInductive:
		v := o.checker.Check(*candidate.Step)
		switch {
		case !v.Valid:
			sc = screened{reason: fmt.Sprintf("%s: %s", v.Reason, v.Detail)}
		case v.Confidence < o.config.ConfidenceThreshold:
			sc = screened{reason: fmt.Sprintf("low_confidence: %.2f below threshold %.2f",
				v.Confidence, o.config.ConfidenceThreshold)}
		default:
			sc = screened{ok: true, rule: string(candidate.Step.Schema), confidence: v.Confidence}
		}
	default:
		sc = screened{reason: fmt.Sprintf("unknown candidate kind %q", candidate.Kind)}
	}

	o.verdicts.SetDefault(key, sc)
	sc.candidate = candidate
	return sc
}

// #endregion screen

// #region commit

// commit grounds an already-screened candidate in the graph. Returns a
// non-empty reject reason when the candidate cannot be grounded; an
// error return is a structural defect and fatal. Validation precedes
// commit, so the node enters the graph already resolved valid — later
// prompts and cancellation snapshots see it as proven.
func (o *Orchestrator) commit(s *session, sc *screened) (string, string, error) {
	conclusion := sc.candidate.Conclusion()

	if _, dup := s.graph.FindSupport(conclusion); dup && !conclusion.Equal(s.target) {
		return "", fmt.Sprintf("redundant_step: %s is already established", conclusion), nil
	}

	var parents []string
	if sc.candidate.Kind == generate.KindDeductive {
		for _, premise := range sc.candidate.Argument.Premises() {
			n, ok := s.graph.FindSupport(premise)
			if !ok {
				return "", fmt.Sprintf("premise_unsupported: %s is neither an axiom nor proven", premise), nil
			}
			parents = appendUnique(parents, n.ID)
		}
	} else {
		// Observations are evidence, not derivations; link the ones the
		// graph already establishes.
		for _, obs := range sc.candidate.Step.Observations {
			if n, ok := s.graph.FindSupport(obs); ok {
				parents = appendUnique(parents, n.ID)
			}
		}
	}

	node := proof.Node{
		Kind:       proof.KindDeductive,
		Statement:  conclusion,
		Argument:   sc.candidate.Argument,
		Step:       sc.candidate.Step,
		Rule:       sc.rule,
		Confidence: sc.confidence,
		Verdict:    proof.VerdictValid,
		Parents:    parents,
	}
	if sc.candidate.Kind == generate.KindInductive {
		node.Kind = proof.KindInductive
	}

	nodeID, err := s.graph.AddNode(node)
	if err != nil {
		// Dangling parents or cycles here mean the orchestrator itself
		// misbehaved; fatal to the session.
		return "", "", fmt.Errorf("commit candidate: %w", err)
	}
	return nodeID, "", nil
}

// #endregion commit

// #region reject-backtrack

// reject books one failed candidate against the current frontier node
// and fires backtracking once the retry budget is spent. Returns true
// on a terminal transition.
func (o *Orchestrator) reject(s *session, candidate generate.Candidate, reason string) bool {
	s.result.Rejected++
	s.feedback = reason
	key := s.frontierKey()
	s.retries[key]++
	o.record(s, StateRejected, "reject", reason, candidate, "")
	log.Printf("[ORCH] session %s: reject (%d/%d on %s): %s",
		s.id, s.retries[key], o.config.MaxRetries, key, reason)

	if s.retries[key] <= o.config.MaxRetries {
		return false
	}
	return o.backtrack(s)
}

// backtrack regresses the frontier to the previous accepted node,
// discarding the abandoned tip's unresolved descendants. Valid
// ancestors are never deleted. Returns true when the frontier has
// regressed past the axioms and the session is abandoned.
func (o *Orchestrator) backtrack(s *session) bool {
	s.result.Backtracks++
	o.record(s, StateBacktracking, "backtrack", s.feedback, generate.Candidate{}, s.frontierKey())

	if len(s.frontier) == 0 {
		s.result = terminal(s, OutcomeAbandoned, "retry budget exhausted at the axioms")
		o.record(s, StateAbandoned, "abandon", s.result.Reason, generate.Candidate{}, "")
		log.Printf("[ORCH] session %s: abandoned (%s)", s.id, s.result.Reason)
		return true
	}

	tip := s.frontier[len(s.frontier)-1]
	s.frontier = s.frontier[:len(s.frontier)-1]
	if _, err := s.graph.DiscardUnresolved(tip); err != nil {
		log.Printf("[ORCH] session %s: discard during backtrack: %v", s.id, err)
	}
	s.feedback = fmt.Sprintf("backtracked: abandoned the attempt to build on %q", tip)
	log.Printf("[ORCH] session %s: backtrack past %s (frontier depth %d)", s.id, tip, len(s.frontier))
	return false
}

// #endregion reject-backtrack

// #region terminal

// finalize designates the root and exports the completed proof. Every
// committed node is already valid, so export cannot find unresolved
// ancestry.
func (o *Orchestrator) finalize(s *session, rootID string) error {
	if err := s.graph.SetRoot(rootID); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	snap, err := s.graph.Export()
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}

	s.result.Outcome = OutcomeFinalized
	s.result.Reason = fmt.Sprintf("target %q proven", s.target)
	s.result.Snapshot = snap
	o.record(s, StateFinalized, "finalize", s.result.Reason, generate.Candidate{}, rootID)
	log.Printf("[ORCH] session %s: finalized with %d nodes", s.id, len(snap.Nodes))
	return nil
}

// abandon ends the session with the partial graph attached.
func (o *Orchestrator) abandon(s *session, reason string) Result {
	s.result = terminal(s, OutcomeAbandoned, reason)
	o.record(s, StateAbandoned, "abandon", reason, generate.Candidate{}, "")
	log.Printf("[ORCH] session %s: abandoned (%s)", s.id, reason)
	return s.result
}

// cancel discards any unresolved entries and reports the partial
// graph; every validated step, accepted or finalized, stays for
// inspection.
func (o *Orchestrator) cancel(s *session, cause error) (Result, error) {
	discarded := s.graph.DiscardPending()
	s.result = terminal(s, OutcomeAbandoned, fmt.Sprintf("cancelled: %v", cause))
	o.record(s, StateAbandoned, "abandon", s.result.Reason, generate.Candidate{}, "")
	log.Printf("[ORCH] session %s: cancelled, %d pending nodes discarded", s.id, discarded)
	return s.result, cause
}

func terminal(s *session, outcome Outcome, reason string) Result {
	r := s.result
	r.Outcome = outcome
	r.Reason = reason
	r.Snapshot = s.graph.Snapshot()
	return r
}

// #endregion terminal

// #region helpers

func (o *Orchestrator) record(s *session, state State, action, reason string, candidate generate.Candidate, nodeID string) {
	if o.recorder == nil {
		return
	}
	d := Decision{
		SessionID: s.id,
		Step:      s.result.Steps,
		State:     state,
		Action:    action,
		Reason:    reason,
		Candidate: candidate.String(),
		NodeID:    nodeID,
		CreatedAt: time.Now().UTC(),
	}
	if candidate.Kind == "" {
		d.Candidate = ""
	}
	if err := o.recorder.RecordDecision(d); err != nil {
		log.Printf("[ORCH] session %s: record decision: %v", s.id, err)
	}
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// #endregion helpers
