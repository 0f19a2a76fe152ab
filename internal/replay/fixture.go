package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/proofloop/proofloop/internal/generate"
	"github.com/proofloop/proofloop/internal/logic"
	"github.com/proofloop/proofloop/internal/orchestrator"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a
// recorded or hand-written session script with its expected outcome.
type Fixture struct {
	Description string               `json:"description"`
	Target      FixtureProposition   `json:"target"`
	Axioms      []FixtureProposition `json:"axioms"`
	Config      FixtureConfig        `json:"config"`

	// Candidates are raw candidate documents, replayed in order through
	// the same parse boundary live generation uses.
	Candidates []json.RawMessage `json:"candidates"`

	Expected FixtureExpected `json:"expected"`
}

// FixtureProposition mirrors logic.Proposition with JSON tags.
type FixtureProposition struct {
	Quantifier string `json:"quantifier"`
	Subject    string `json:"subject"`
	Predicate  string `json:"predicate"`
}

// FixtureConfig mirrors orchestrator.Config with JSON tags. Zero values
// fall back to the orchestrator defaults.
type FixtureConfig struct {
	MaxRetries          int     `json:"max_retries"`
	StepBudget          int     `json:"step_budget"`
	MinObservations     int     `json:"min_observations"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// FixtureExpected captures the expected terminal shape of the session.
type FixtureExpected struct {
	Outcome    string `json:"outcome"`
	Accepted   int    `json:"accepted"`
	Rejected   int    `json:"rejected"`
	Backtracks int    `json:"backtracks"`
	ProofNodes int    `json:"proof_nodes"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture bytes.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// ToProposition converts a FixtureProposition to a domain Proposition.
func (p FixtureProposition) ToProposition() (logic.Proposition, error) {
	return logic.New(p.Quantifier, p.Subject, p.Predicate)
}

// ToConfig converts a FixtureConfig to an orchestrator Config, filling
// unset fields from the defaults.
func (fc FixtureConfig) ToConfig() orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	if fc.MaxRetries > 0 {
		cfg.MaxRetries = fc.MaxRetries
	}
	if fc.StepBudget > 0 {
		cfg.StepBudget = fc.StepBudget
	}
	if fc.MinObservations > 0 {
		cfg.MinObservations = fc.MinObservations
	}
	if fc.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = fc.ConfidenceThreshold
	}
	return cfg
}

// ParseCandidates runs every scripted candidate through the strict
// parse boundary. A malformed candidate fails the whole fixture; a
// fixture is a controlled input, not model output to be tolerated.
func (f *Fixture) ParseCandidates() ([]generate.Candidate, error) {
	out := make([]generate.Candidate, 0, len(f.Candidates))
	for i, raw := range f.Candidates {
		c, err := generate.ParseCandidate(raw)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// #endregion fixture-loader
