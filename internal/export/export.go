package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/proofloop/proofloop/internal/orchestrator"
	"github.com/proofloop/proofloop/internal/proof"
)

// #region document

// Document is the serializable view of a finished session: the proof
// steps in derivation order plus the terminal outcome. It marshals the
// same way to JSON and YAML.
type Document struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Target    string `json:"target" yaml:"target"`
	Outcome   string `json:"outcome" yaml:"outcome"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Complete  bool   `json:"complete" yaml:"complete"`
	Steps     []Step `json:"steps" yaml:"steps"`
}

// Step is one proof node flattened for export.
type Step struct {
	Index        int      `json:"index" yaml:"index"`
	NodeID       string   `json:"node_id" yaml:"node_id"`
	Kind         string   `json:"kind" yaml:"kind"`
	Rule         string   `json:"rule,omitempty" yaml:"rule,omitempty"`
	Statement    string   `json:"statement" yaml:"statement"`
	Major        string   `json:"major,omitempty" yaml:"major,omitempty"`
	Minor        string   `json:"minor,omitempty" yaml:"minor,omitempty"`
	Observations []string `json:"observations,omitempty" yaml:"observations,omitempty"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
	Verdict      string   `json:"verdict" yaml:"verdict"`
	DependsOn    []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// #endregion document

// #region build

// NewDocument flattens a session result into an export document. The
// snapshot's node order is already topological, axioms first.
func NewDocument(target string, res orchestrator.Result) Document {
	doc := Document{
		SessionID: res.SessionID,
		Target:    target,
		Outcome:   string(res.Outcome),
		Reason:    res.Reason,
		Complete:  res.Snapshot.Complete,
		Steps:     make([]Step, 0, len(res.Snapshot.Nodes)),
	}
	for i, n := range res.Snapshot.Nodes {
		doc.Steps = append(doc.Steps, flatten(i+1, n))
	}
	return doc
}

func flatten(index int, n proof.Node) Step {
	s := Step{
		Index:      index,
		NodeID:     n.ID,
		Kind:       string(n.Kind),
		Rule:       n.Rule,
		Statement:  n.Statement.String(),
		Confidence: n.Confidence,
		Verdict:    string(n.Verdict),
		DependsOn:  append([]string(nil), n.Parents...),
	}
	if n.Kind == proof.KindAxiom {
		s.Confidence = 1.0
	}
	if n.Argument != nil {
		s.Major = n.Argument.Major.String()
		s.Minor = n.Argument.Minor.String()
	}
	if n.Step != nil {
		for _, obs := range n.Step.Observations {
			s.Observations = append(s.Observations, obs.String())
		}
	}
	return s
}

// #endregion build

// #region marshal

// JSON marshals the document with indentation.
func (d Document) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return b, nil
}

// YAML marshals the document.
func (d Document) YAML() ([]byte, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("export yaml: %w", err)
	}
	return b, nil
}

// #endregion marshal

// #region render

// Render pretty-prints the proof as a human-readable report.
func (d Document) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Proof for: '%s' ---\n", d.Target)
	for _, s := range d.Steps {
		fmt.Fprintf(&b, "\nStep %d: %s\n", s.Index, s.Statement)
		fmt.Fprintf(&b, "  Type: %s (Rule: %s)\n", s.Kind, s.Rule)
		fmt.Fprintf(&b, "  Status: %s (Conf: %.0f%%)\n", strings.ToUpper(s.Verdict), s.Confidence*100)
		if s.Major != "" {
			fmt.Fprintf(&b, "  Major: %s\n", s.Major)
			fmt.Fprintf(&b, "  Minor: %s\n", s.Minor)
		}
		if len(s.Observations) > 0 {
			fmt.Fprintf(&b, "  Observations: %s\n", strings.Join(s.Observations, "; "))
		}
	}
	fmt.Fprintf(&b, "\n--- Outcome ---\n%s", d.Outcome)
	if d.Reason != "" {
		fmt.Fprintf(&b, ": %s", d.Reason)
	}
	b.WriteString("\n")
	return b.String()
}

// #endregion render
