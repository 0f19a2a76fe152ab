package proof

import (
	"errors"
	"testing"

	"github.com/proofloop/proofloop/internal/logic"
)

// #region helpers
func axiom(t *testing.T, g *Graph, quantifier, subject, predicate string) string {
	t.Helper()
	id, err := g.AddNode(Node{
		Kind:      KindAxiom,
		Statement: logic.MustNew(quantifier, subject, predicate),
		Rule:      "given",
		Verdict:   VerdictValid,
	})
	if err != nil {
		t.Fatalf("add axiom: %v", err)
	}
	return id
}

func derived(t *testing.T, g *Graph, prop logic.Proposition, parents ...string) string {
	t.Helper()
	id, err := g.AddNode(Node{
		Kind:      KindDeductive,
		Statement: prop,
		Rule:      "Barbara",
		Parents:   parents,
	})
	if err != nil {
		t.Fatalf("add derived: %v", err)
	}
	return id
}

// #endregion helpers

// #region test-add
func TestAddNodeDanglingParent(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode(Node{
		Kind:      KindDeductive,
		Statement: logic.MustNew("All", "socrates", "mortal"),
		Parents:   []string{"missing"},
	})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
}

func TestAddNodeDefaultsPending(t *testing.T) {
	g := NewGraph()
	id := derived(t, g, logic.MustNew("All", "socrates", "mortal"))
	n, ok := g.Node(id)
	if !ok || n.Verdict != VerdictPending {
		t.Fatalf("expected pending node, got %+v (%v)", n, ok)
	}
}

// #endregion test-add

// #region test-verdict
func TestMarkVerdictTransitions(t *testing.T) {
	g := NewGraph()
	id := derived(t, g, logic.MustNew("All", "socrates", "mortal"))

	if err := g.MarkVerdict("nope", VerdictValid); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
	if err := g.MarkVerdict(id, VerdictPending); err == nil {
		t.Error("pending is not a resolution")
	}
	if err := g.MarkVerdict(id, VerdictValid); err != nil {
		t.Fatalf("mark valid: %v", err)
	}
	if err := g.MarkVerdict(id, VerdictInvalid); !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("expected ErrAlreadyResolved, got %v", err)
	}
}

// #endregion test-verdict

// #region test-root-export
func TestExportRequiresValidAncestry(t *testing.T) {
	g := NewGraph()
	ax := axiom(t, g, "All", "men", "mortal")
	mid := derived(t, g, logic.MustNew("All", "greeks", "mortal"), ax)
	top := derived(t, g, logic.MustNew("All", "socrates", "mortal"), mid)

	if _, err := g.Export(); !errors.Is(err, ErrIncompleteProof) {
		t.Fatalf("export without root: expected ErrIncompleteProof, got %v", err)
	}
	if err := g.SetRoot(top); err != nil {
		t.Fatalf("set root: %v", err)
	}

	// Root and mid are still pending.
	if _, err := g.Export(); !errors.Is(err, ErrIncompleteProof) {
		t.Fatalf("export with pending ancestor: expected ErrIncompleteProof, got %v", err)
	}

	if err := g.MarkVerdict(mid, VerdictValid); err != nil {
		t.Fatal(err)
	}
	if err := g.MarkVerdict(top, VerdictValid); err != nil {
		t.Fatal(err)
	}

	snap, err := g.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !snap.Complete || snap.Root != top {
		t.Errorf("snapshot not complete / wrong root: %+v", snap)
	}
	if len(snap.Nodes) != 3 {
		t.Fatalf("expected 3 nodes in closure, got %d", len(snap.Nodes))
	}
	// Topological: axiom first, root last, no pending or invalid nodes.
	if snap.Nodes[0].ID != ax || snap.Nodes[2].ID != top {
		t.Errorf("bad topological order: %v", []string{snap.Nodes[0].ID, snap.Nodes[1].ID, snap.Nodes[2].ID})
	}
	for _, n := range snap.Nodes {
		if n.Verdict != VerdictValid {
			t.Errorf("exported node %s has verdict %s", n.ID, n.Verdict)
		}
	}
}

func TestExportExcludesSideBranches(t *testing.T) {
	g := NewGraph()
	ax := axiom(t, g, "All", "men", "mortal")
	stray := derived(t, g, logic.MustNew("Some", "men", "bald"), ax) // never resolved
	top := derived(t, g, logic.MustNew("All", "socrates", "mortal"), ax)
	if err := g.MarkVerdict(top, VerdictValid); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRoot(top); err != nil {
		t.Fatal(err)
	}
	snap, err := g.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, n := range snap.Nodes {
		if n.ID == stray {
			t.Error("pending side branch leaked into export")
		}
	}
}

func TestSetRootRejectsInvalid(t *testing.T) {
	g := NewGraph()
	id := derived(t, g, logic.MustNew("All", "socrates", "mortal"))
	if err := g.MarkVerdict(id, VerdictInvalid); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRoot(id); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected ErrInvalidRoot, got %v", err)
	}
	if err := g.SetRoot("missing"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

// #endregion test-root-export

// #region test-discard
func TestDiscardUnresolvedKeepsValidAncestors(t *testing.T) {
	g := NewGraph()
	ax := axiom(t, g, "All", "men", "mortal")
	kept := derived(t, g, logic.MustNew("All", "greeks", "mortal"), ax)
	if err := g.MarkVerdict(kept, VerdictValid); err != nil {
		t.Fatal(err)
	}
	p1 := derived(t, g, logic.MustNew("All", "athenians", "mortal"), kept)
	p2 := derived(t, g, logic.MustNew("All", "socrates", "mortal"), p1)

	removed, err := g.DiscardUnresolved(kept)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	for _, id := range []string{ax, kept} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("valid node %s was deleted", id)
		}
	}
	for _, id := range []string{p1, p2} {
		if _, ok := g.Node(id); ok {
			t.Errorf("pending descendant %s survived", id)
		}
	}
}

func TestDiscardStopsAtValidChild(t *testing.T) {
	g := NewGraph()
	ax := axiom(t, g, "All", "men", "mortal")
	valid := derived(t, g, logic.MustNew("All", "greeks", "mortal"), ax)
	if err := g.MarkVerdict(valid, VerdictValid); err != nil {
		t.Fatal(err)
	}
	removed, err := g.DiscardUnresolved(ax)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if removed != 0 {
		t.Errorf("valid child must survive, removed %d", removed)
	}
}

// #endregion test-discard

// #region test-support
func TestFindSupportSymmetricConversions(t *testing.T) {
	g := NewGraph()
	axiom(t, g, "No", "reptiles", "mammals")
	axiom(t, g, "Some", "swans", "white")
	axiom(t, g, "All", "cats", "mammals")

	if _, ok := g.FindSupport(logic.MustNew("No", "mammals", "reptiles")); !ok {
		t.Error("E proposition should convert symmetrically")
	}
	if _, ok := g.FindSupport(logic.MustNew("Some", "white", "swans")); !ok {
		t.Error("I proposition should convert symmetrically")
	}
	if _, ok := g.FindSupport(logic.MustNew("All", "mammals", "cats")); ok {
		t.Error("A proposition must not convert")
	}
	if _, ok := g.FindSupport(logic.MustNew("All", "cats", "mammals")); !ok {
		t.Error("exact match missed")
	}
}

func TestFindSupportIgnoresPending(t *testing.T) {
	g := NewGraph()
	derived(t, g, logic.MustNew("All", "greeks", "mortal"))
	if _, ok := g.FindSupport(logic.MustNew("All", "greeks", "mortal")); ok {
		t.Error("pending nodes are not support")
	}
}

// #endregion test-support

// #region test-cycle
func TestCycleDefense(t *testing.T) {
	g := NewGraph()
	ax := axiom(t, g, "All", "men", "mortal")
	// Parents must pre-exist, so a self-cycle can only arrive via a
	// colliding explicit id.
	_, err := g.AddNode(Node{
		ID:        ax,
		Kind:      KindDeductive,
		Statement: logic.MustNew("All", "socrates", "mortal"),
		Parents:   []string{ax},
	})
	if err == nil {
		t.Fatal("expected duplicate/cycle rejection")
	}
}

// #endregion test-cycle
