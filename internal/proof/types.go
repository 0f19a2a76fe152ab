package proof

// #region imports
import (
	"time"

	"github.com/proofloop/proofloop/internal/logic"
)

// #endregion imports

// #region verdict

// Verdict is the lifecycle state of a proof node. Validated nodes
// enter the graph already valid; a node inserted pending flips exactly
// once to valid or invalid.
type Verdict string

const (
	VerdictPending Verdict = "pending"
	VerdictValid   Verdict = "valid"
	VerdictInvalid Verdict = "invalid"
)

// #endregion verdict

// #region kind

// Kind classifies how a node's statement was established.
type Kind string

const (
	KindAxiom     Kind = "axiom"
	KindDeductive Kind = "deductive"
	KindInductive Kind = "inductive"
)

// #endregion kind

// #region node

// Node is one accepted step in a proof. Statement is the proposition
// the node establishes; Argument or Step holds the inference that
// produced it (both nil for axioms). Never mutated after insertion
// except the pending→valid/invalid verdict flip.
type Node struct {
	ID        string
	Kind      Kind
	Statement logic.Proposition
	Argument  *logic.Argument
	Step      *logic.InductiveStep

	// Rule labels the license for the step: a mood name for deductive
	// nodes, the schema for inductive ones, "given" for axioms.
	Rule       string
	Confidence float64
	Verdict    Verdict
	Parents    []string
	CreatedAt  time.Time
}

// #endregion node

// #region snapshot

// Snapshot is an immutable copy of a graph, ordered topologically from
// axioms to root. Complete is true only for a successful Export.
type Snapshot struct {
	Root     string
	Nodes    []Node
	Complete bool
	TakenAt  time.Time
}

// Node returns the snapshot node with the given id.
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// #endregion snapshot
