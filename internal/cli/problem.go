package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/proofloop/proofloop/internal/logic"
)

// #region problem-file

// problemFile is the YAML shape of a proving problem: the target
// conclusion and the axioms it may be derived from.
type problemFile struct {
	Target propositionSpec   `yaml:"target"`
	Axioms []propositionSpec `yaml:"axioms"`
}

type propositionSpec struct {
	Quantifier string `yaml:"quantifier"`
	Subject    string `yaml:"subject"`
	Predicate  string `yaml:"predicate"`
}

// loadProblem reads a problem file through the strict proposition
// boundary: unknown fields and malformed propositions are errors, not
// warnings.
func loadProblem(path string) (logic.Proposition, []logic.Proposition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return logic.Proposition{}, nil, fmt.Errorf("read problem %s: %w", path, err)
	}

	var pf problemFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return logic.Proposition{}, nil, fmt.Errorf("parse problem %s: %w", path, err)
	}

	target, err := logic.New(pf.Target.Quantifier, pf.Target.Subject, pf.Target.Predicate)
	if err != nil {
		return logic.Proposition{}, nil, fmt.Errorf("problem target: %w", err)
	}
	if len(pf.Axioms) == 0 {
		return logic.Proposition{}, nil, fmt.Errorf("problem %s: no axioms given", path)
	}
	axioms := make([]logic.Proposition, 0, len(pf.Axioms))
	for i, spec := range pf.Axioms {
		p, err := logic.New(spec.Quantifier, spec.Subject, spec.Predicate)
		if err != nil {
			return logic.Proposition{}, nil, fmt.Errorf("problem axiom %d: %w", i, err)
		}
		axioms = append(axioms, p)
	}
	return target, axioms, nil
}

// #endregion problem-file
