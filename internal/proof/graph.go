package proof

// #region imports
import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/proofloop/proofloop/internal/logic"
)

// #endregion imports

// #region graph

// Graph is a directed acyclic graph of proof nodes with a single
// designated root. Parents must exist before their children (grounding
// invariant) and no node may depend on itself transitively.
//
// A Graph is owned by exactly one reasoning session and is not safe
// for concurrent mutation; validators run concurrently, commits do not.
type Graph struct {
	nodes    map[string]*Node
	children map[string][]string
	order    []string // insertion order
	root     string
}

// NewGraph returns an empty proof graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

// Len returns the number of nodes currently in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Root returns the designated root node id, empty if unset.
func (g *Graph) Root() string {
	return g.root
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(n), true
}

// #endregion graph

// #region add-node

// AddNode inserts a node whose parents must already be present.
// Assigns an id when the node carries none and defaults the verdict to
// pending. Returns the stable node id.
func (g *Graph) AddNode(n Node) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if _, exists := g.nodes[n.ID]; exists {
		return "", fmt.Errorf("add node %s: duplicate id", n.ID)
	}
	if n.Verdict == "" {
		n.Verdict = VerdictPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	for _, pid := range n.Parents {
		if _, ok := g.nodes[pid]; !ok {
			return "", fmt.Errorf("add node %s: parent %s: %w", n.ID, pid, ErrDanglingReference)
		}
	}
	// Structurally impossible while parents must pre-exist, but checked
	// defensively against future multi-parent edits.
	if g.reachable(n.Parents, n.ID) {
		return "", fmt.Errorf("add node %s: %w", n.ID, ErrCycle)
	}

	stored := copyNode(&n)
	g.nodes[n.ID] = &stored
	g.order = append(g.order, n.ID)
	for _, pid := range n.Parents {
		g.children[pid] = append(g.children[pid], n.ID)
	}
	return n.ID, nil
}

// reachable reports whether target is reachable from any of the start
// ids by following parent edges.
func (g *Graph) reachable(start []string, target string) bool {
	seen := make(map[string]bool)
	stack := append([]string(nil), start...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if n, ok := g.nodes[id]; ok {
			stack = append(stack, n.Parents...)
		}
	}
	return false
}

// #endregion add-node

// #region mark-verdict

// MarkVerdict flips a pending node to valid or invalid.
func (g *Graph) MarkVerdict(id string, v Verdict) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("mark %s: %w", id, ErrUnknownNode)
	}
	if v != VerdictValid && v != VerdictInvalid {
		return fmt.Errorf("mark %s: verdict %q is not a resolution", id, v)
	}
	if n.Verdict != VerdictPending {
		return fmt.Errorf("mark %s: currently %s: %w", id, n.Verdict, ErrAlreadyResolved)
	}
	n.Verdict = v
	return nil
}

// #endregion mark-verdict

// #region set-root

// SetRoot designates the final-conclusion node.
func (g *Graph) SetRoot(id string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("set root %s: %w", id, ErrUnknownNode)
	}
	if n.Verdict == VerdictInvalid {
		return fmt.Errorf("set root %s: node is invalid: %w", id, ErrInvalidRoot)
	}
	g.root = id
	return nil
}

// #endregion set-root

// #region discard

// DiscardUnresolved removes the pending descendants of a node, leaving
// the node itself and every valid node untouched. Used by backtracking
// and session cancellation. Returns the number of removed nodes.
func (g *Graph) DiscardUnresolved(id string) (int, error) {
	if _, ok := g.nodes[id]; !ok {
		return 0, fmt.Errorf("discard %s: %w", id, ErrUnknownNode)
	}

	doomed := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		for _, cid := range g.children[cur] {
			child, ok := g.nodes[cid]
			if !ok || doomed[cid] {
				continue
			}
			// Descent stops at resolved nodes; valid subtrees survive.
			if child.Verdict != VerdictPending {
				continue
			}
			doomed[cid] = true
			walk(cid)
		}
	}
	walk(id)

	if len(doomed) == 0 {
		return 0, nil
	}

	// Grounding guard: a surviving node must not reference a doomed
	// parent. Cannot happen while children postdate parents and valid
	// nodes never descend from pending ones.
	for nid, n := range g.nodes {
		if doomed[nid] {
			continue
		}
		for _, pid := range n.Parents {
			if doomed[pid] {
				return 0, fmt.Errorf("discard %s: would orphan %s", id, nid)
			}
		}
	}

	for nid := range doomed {
		delete(g.nodes, nid)
		delete(g.children, nid)
	}
	kept := g.order[:0]
	for _, nid := range g.order {
		if !doomed[nid] {
			kept = append(kept, nid)
		}
	}
	g.order = kept
	for pid, kids := range g.children {
		filtered := kids[:0]
		for _, cid := range kids {
			if !doomed[cid] {
				filtered = append(filtered, cid)
			}
		}
		g.children[pid] = filtered
	}
	if doomed[g.root] {
		g.root = ""
	}
	return len(doomed), nil
}

// DiscardPending removes every pending node from the graph. Used on
// session cancellation: valid nodes stay for the exported partial
// graph. Returns the number of removed nodes.
func (g *Graph) DiscardPending() int {
	doomed := make(map[string]bool)
	for id, n := range g.nodes {
		if n.Verdict == VerdictPending {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}
	for nid := range doomed {
		delete(g.nodes, nid)
		delete(g.children, nid)
	}
	kept := g.order[:0]
	for _, nid := range g.order {
		if !doomed[nid] {
			kept = append(kept, nid)
		}
	}
	g.order = kept
	for pid, kids := range g.children {
		filtered := kids[:0]
		for _, cid := range kids {
			if !doomed[cid] {
				filtered = append(filtered, cid)
			}
		}
		g.children[pid] = filtered
	}
	if doomed[g.root] {
		g.root = ""
	}
	return len(doomed)
}

// #endregion discard

// #region find-support

// FindSupport locates a valid node establishing the proposition. The
// safe symmetric conversions are applied when matching: "No P are Q"
// supports "No Q are P" and "Some P are Q" supports "Some Q are P".
// A and O forms are never converted; those inversions need extra
// existential assumptions.
func (g *Graph) FindSupport(p logic.Proposition) (Node, bool) {
	for i := len(g.order) - 1; i >= 0; i-- {
		n := g.nodes[g.order[i]]
		if n.Verdict != VerdictValid {
			continue
		}
		if n.Statement.Equal(p) {
			return copyNode(n), true
		}
		if p.Quantifier != logic.No && p.Quantifier != logic.Some {
			continue
		}
		if n.Statement.Quantifier == p.Quantifier &&
			n.Statement.Subject == p.Predicate &&
			n.Statement.Predicate == p.Subject {
			return copyNode(n), true
		}
	}
	return Node{}, false
}

// #endregion find-support

// #region export

// Export returns the completed proof: the root's ancestor closure in
// topological order from axioms to root. Fails with ErrIncompleteProof
// when no root is set or any node in the closure is not valid.
func (g *Graph) Export() (Snapshot, error) {
	if g.root == "" {
		return Snapshot{}, fmt.Errorf("export: no root set: %w", ErrIncompleteProof)
	}

	closure := g.ancestorClosure(g.root)
	for id := range closure {
		if g.nodes[id].Verdict != VerdictValid {
			return Snapshot{}, fmt.Errorf("export: node %s is %s: %w",
				id, g.nodes[id].Verdict, ErrIncompleteProof)
		}
	}

	return Snapshot{
		Root:     g.root,
		Nodes:    g.topoSort(closure),
		Complete: true,
		TakenAt:  time.Now().UTC(),
	}, nil
}

// Snapshot returns a read-only copy of the whole graph, valid or not,
// for proposer context and abandoned-session diagnostics.
func (g *Graph) Snapshot() Snapshot {
	all := make(map[string]bool, len(g.order))
	for _, id := range g.order {
		all[id] = true
	}
	return Snapshot{
		Root:     g.root,
		Nodes:    g.topoSort(all),
		Complete: false,
		TakenAt:  time.Now().UTC(),
	}
}

// ancestorClosure returns the id set of a node and all its ancestors.
func (g *Graph) ancestorClosure(id string) map[string]bool {
	closure := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if closure[cur] {
			continue
		}
		closure[cur] = true
		stack = append(stack, g.nodes[cur].Parents...)
	}
	return closure
}

// topoSort orders the given id set from axioms to root. Insertion
// order already respects dependencies (parents pre-exist), so a single
// ordered pass suffices and ties keep insertion order.
func (g *Graph) topoSort(ids map[string]bool) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range g.order {
		if ids[id] {
			out = append(out, copyNode(g.nodes[id]))
		}
	}
	return out
}

// #endregion export

// #region helpers

func copyNode(n *Node) Node {
	c := *n
	c.Parents = append([]string(nil), n.Parents...)
	if n.Argument != nil {
		a := *n.Argument
		c.Argument = &a
	}
	if n.Step != nil {
		s := *n.Step
		s.Observations = append([]logic.Proposition(nil), n.Step.Observations...)
		s.SimilarityDims = append([]string(nil), n.Step.SimilarityDims...)
		if n.Step.Alternatives != nil {
			s.Alternatives = append([]string{}, n.Step.Alternatives...)
		}
		c.Step = &s
	}
	return c
}

// #endregion helpers
