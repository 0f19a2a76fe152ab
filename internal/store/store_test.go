package store

import (
	"testing"
	"time"

	"github.com/proofloop/proofloop/internal/logic"
	"github.com/proofloop/proofloop/internal/orchestrator"
	"github.com/proofloop/proofloop/internal/proof"
)

// #region helpers
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() (logic.Proposition, orchestrator.Result) {
	major := logic.MustNew("All", "men", "mortal")
	minor := logic.MustNew("All", "socrates", "men")
	target := logic.MustNew("All", "socrates", "mortal")
	arg := logic.Argument{Major: major, Minor: minor, Conclusion: target}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	nodes := []proof.Node{
		{ID: "ax1", Kind: proof.KindAxiom, Statement: major, Rule: "given", Verdict: proof.VerdictValid, CreatedAt: now},
		{ID: "ax2", Kind: proof.KindAxiom, Statement: minor, Rule: "given", Verdict: proof.VerdictValid, CreatedAt: now},
		{ID: "root", Kind: proof.KindDeductive, Statement: target, Argument: &arg,
			Rule: "Barbara", Confidence: 1.0, Verdict: proof.VerdictValid,
			Parents: []string{"ax1", "ax2"}, CreatedAt: now},
	}
	return target, orchestrator.Result{
		SessionID: "01HTESTSESSION",
		Outcome:   orchestrator.OutcomeFinalized,
		Reason:    `target proven`,
		Snapshot: proof.Snapshot{
			Root:     "root",
			Nodes:    nodes,
			Complete: true,
			TakenAt:  now,
		},
		Steps:    1,
		Accepted: 1,
	}
}

// #endregion helpers

// #region save-load-tests
func TestSaveAndLoadResult(t *testing.T) {
	s := setupStore(t)
	target, res := sampleResult()

	if err := s.SaveResult(target, res); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadResult(res.SessionID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Outcome != orchestrator.OutcomeFinalized || !got.Snapshot.Complete {
		t.Fatalf("round trip lost outcome: %+v", got)
	}
	if got.Snapshot.Root != "root" {
		t.Errorf("expected root 'root', got %q", got.Snapshot.Root)
	}
	if len(got.Snapshot.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(got.Snapshot.Nodes))
	}

	// Topological positions survive: axioms first, root last.
	for i, want := range []string{"ax1", "ax2", "root"} {
		if got.Snapshot.Nodes[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got.Snapshot.Nodes[i].ID)
		}
	}

	rootNode, ok := got.Snapshot.Node("root")
	if !ok {
		t.Fatal("root node missing")
	}
	if len(rootNode.Parents) != 2 {
		t.Errorf("expected 2 parent edges, got %v", rootNode.Parents)
	}
	if rootNode.Argument == nil || !rootNode.Argument.Conclusion.Equal(target) {
		t.Errorf("argument did not round trip: %+v", rootNode.Argument)
	}
	if rootNode.Rule != "Barbara" || rootNode.Confidence != 1.0 {
		t.Errorf("rule/confidence did not round trip: %q/%v", rootNode.Rule, rootNode.Confidence)
	}
	if !got.Snapshot.Nodes[0].Statement.Equal(logic.MustNew("All", "men", "mortal")) {
		t.Errorf("axiom statement did not round trip: %s", got.Snapshot.Nodes[0].Statement)
	}
}

func TestSaveResultRejectsDuplicateSession(t *testing.T) {
	s := setupStore(t)
	target, res := sampleResult()

	if err := s.SaveResult(target, res); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveResult(target, res); err == nil {
		t.Fatal("expected duplicate session id to fail")
	}
}

func TestLoadResultUnknownSession(t *testing.T) {
	s := setupStore(t)
	if _, err := s.LoadResult("nope"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestSaveInductiveStepRoundTrip(t *testing.T) {
	s := setupStore(t)
	obs := []logic.Proposition{
		logic.MustNew("Some", "swans", "white"),
		logic.MustNew("Some", "swans", "graceful"),
	}
	conclusion := logic.MustNew("Some", "swans", "beautiful")
	step := logic.InductiveStep{
		Schema:       logic.SchemaEnumerative,
		Observations: obs,
		Conclusion:   conclusion,
		Confidence:   0.6,
	}
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	res := orchestrator.Result{
		SessionID: "01HINDUCTIVE",
		Outcome:   orchestrator.OutcomeAbandoned,
		Reason:    "step budget exhausted",
		Snapshot: proof.Snapshot{
			Nodes: []proof.Node{
				{ID: "n1", Kind: proof.KindInductive, Statement: conclusion,
					Step: &step, Rule: "enumerative", Confidence: 0.6,
					Verdict: proof.VerdictPending, CreatedAt: now},
			},
			TakenAt: now,
		},
		Steps: 4,
	}

	if err := s.SaveResult(conclusion, res); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadResult(res.SessionID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	n := got.Snapshot.Nodes[0]
	if n.Step == nil || len(n.Step.Observations) != 2 {
		t.Fatalf("inductive step did not round trip: %+v", n.Step)
	}
	if n.Step.Schema != logic.SchemaEnumerative || n.Step.Confidence != 0.6 {
		t.Errorf("schema/confidence did not round trip: %+v", n.Step)
	}
	if n.Verdict != proof.VerdictPending {
		t.Errorf("expected pending verdict preserved, got %s", n.Verdict)
	}
}

// #endregion save-load-tests

// #region list-tests
func TestListSessions(t *testing.T) {
	s := setupStore(t)
	target, res := sampleResult()
	if err := s.SaveResult(target, res); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := res
	second.SessionID = "01HSECOND"
	second.Outcome = orchestrator.OutcomeAbandoned
	second.Snapshot.Complete = false
	second.Snapshot.TakenAt = res.Snapshot.TakenAt.Add(time.Hour)
	stripIDs := second.Snapshot.Nodes
	for i := range stripIDs {
		stripIDs[i].ID = stripIDs[i].ID + "-b"
	}
	for i := range stripIDs {
		for j := range stripIDs[i].Parents {
			stripIDs[i].Parents[j] = stripIDs[i].Parents[j] + "-b"
		}
	}
	if err := s.SaveResult(target, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	sums, err := s.ListSessions(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sums))
	}
	// Newest first.
	if sums[0].SessionID != "01HSECOND" {
		t.Errorf("expected newest first, got %s", sums[0].SessionID)
	}
	if sums[0].Complete || !sums[1].Complete {
		t.Errorf("complete flags wrong: %+v", sums)
	}
	if sums[1].Target != target.String() {
		t.Errorf("target did not round trip: %q", sums[1].Target)
	}
}

// #endregion list-tests
