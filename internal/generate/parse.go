package generate

// #region imports
import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/proofloop/proofloop/internal/logic"
)

// #endregion imports

// #region wire-types

// propositionWire is the JSON shape of one categorical statement.
type propositionWire struct {
	Quantifier string `json:"quantifier"`
	Subject    string `json:"subject"`
	Predicate  string `json:"predicate"`
}

// argumentWire is the JSON shape of a categorical syllogism.
type argumentWire struct {
	Major      propositionWire `json:"major"`
	Minor      propositionWire `json:"minor"`
	Conclusion propositionWire `json:"conclusion"`
}

// stepWire is the JSON shape of an inductive step. Alternatives keeps
// nil-vs-empty so the checker can tell "undeclared" from "declared,
// none known".
type stepWire struct {
	Schema         string            `json:"schema"`
	Observations   []propositionWire `json:"observations"`
	Conclusion     propositionWire   `json:"conclusion"`
	Confidence     float64           `json:"confidence"`
	SimilarityDims []string          `json:"similarity_dims"`
	Alternatives   []string          `json:"alternatives"`
}

// candidateWire is the top-level JSON document a proposer must emit.
type candidateWire struct {
	Kind     string        `json:"kind"`
	Summary  string        `json:"summary"`
	Argument *argumentWire `json:"argument"`
	Step     *stepWire     `json:"step"`
}

// #endregion wire-types

// #region parse

// ParseCandidate is the strict parse-then-validate boundary: raw model
// output either becomes a fully structured Candidate or is rejected
// with ErrMalformedProposition. Nothing is silently coerced.
func ParseCandidate(raw []byte) (Candidate, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var wire candidateWire
	if err := dec.Decode(&wire); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", logic.ErrMalformedProposition, err)
	}

	switch CandidateKind(wire.Kind) {
	case KindDeductive:
		if wire.Argument == nil {
			return Candidate{}, fmt.Errorf("%w: deductive candidate without argument", logic.ErrMalformedProposition)
		}
		arg, err := parseArgument(*wire.Argument)
		if err != nil {
			return Candidate{}, err
		}
		return Candidate{Kind: KindDeductive, Argument: &arg, Summary: wire.Summary}, nil

	case KindInductive:
		if wire.Step == nil {
			return Candidate{}, fmt.Errorf("%w: inductive candidate without step", logic.ErrMalformedProposition)
		}
		step, err := parseStep(*wire.Step)
		if err != nil {
			return Candidate{}, err
		}
		return Candidate{Kind: KindInductive, Step: &step, Summary: wire.Summary}, nil
	}
	return Candidate{}, fmt.Errorf("%w: unknown candidate kind %q", logic.ErrMalformedProposition, wire.Kind)
}

func parseProposition(w propositionWire) (logic.Proposition, error) {
	return logic.New(w.Quantifier, w.Subject, w.Predicate)
}

func parseArgument(w argumentWire) (logic.Argument, error) {
	major, err := parseProposition(w.Major)
	if err != nil {
		return logic.Argument{}, fmt.Errorf("major premise: %w", err)
	}
	minor, err := parseProposition(w.Minor)
	if err != nil {
		return logic.Argument{}, fmt.Errorf("minor premise: %w", err)
	}
	conclusion, err := parseProposition(w.Conclusion)
	if err != nil {
		return logic.Argument{}, fmt.Errorf("conclusion: %w", err)
	}
	return logic.Argument{Major: major, Minor: minor, Conclusion: conclusion}, nil
}

func parseStep(w stepWire) (logic.InductiveStep, error) {
	schema, err := logic.ParseSchema(w.Schema)
	if err != nil {
		return logic.InductiveStep{}, err
	}
	obs := make([]logic.Proposition, 0, len(w.Observations))
	for i, o := range w.Observations {
		p, err := parseProposition(o)
		if err != nil {
			return logic.InductiveStep{}, fmt.Errorf("observation %d: %w", i, err)
		}
		obs = append(obs, p)
	}
	conclusion, err := parseProposition(w.Conclusion)
	if err != nil {
		return logic.InductiveStep{}, fmt.Errorf("conclusion: %w", err)
	}
	return logic.InductiveStep{
		Schema:         schema,
		Observations:   obs,
		Conclusion:     conclusion,
		Confidence:     w.Confidence,
		SimilarityDims: w.SimilarityDims,
		Alternatives:   w.Alternatives,
	}, nil
}

// #endregion parse
