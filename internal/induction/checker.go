package induction

// #region imports
import (
	"fmt"

	"github.com/proofloop/proofloop/internal/logic"
)

// #endregion imports

// #region reason-code

// ReasonCode identifies why an inductive step was rejected.
type ReasonCode string

const (
	ReasonNone                        ReasonCode = "none"
	ReasonTooFewObservations          ReasonCode = "too_few_observations"
	ReasonPredicateMismatch           ReasonCode = "predicate_mismatch"
	ReasonOverconfidentGeneralization ReasonCode = "overconfident_generalization"
	ReasonIllicitUniversalFromAnalogy ReasonCode = "illicit_universal_from_analogy"
	ReasonNoSimilarityDims            ReasonCode = "no_similarity_dims"
	ReasonNoAlternatives              ReasonCode = "no_alternatives"
	ReasonUnknownSchema               ReasonCode = "unknown_schema"
	ReasonConfidenceOutOfRange        ReasonCode = "confidence_out_of_range"
)

// #endregion reason-code

// #region verdict

// Verdict is the outcome of checking one inductive step. Confidence is
// the generator's declared value, passed through unmodified; the
// checker only rejects, it never rescales.
type Verdict struct {
	Valid      bool
	Reason     ReasonCode
	Detail     string
	Confidence float64
}

// #endregion verdict

// #region policy

// Policy holds the caller-supplied acceptance policy.
type Policy struct {
	// MinObservations is the floor for enumerative generalization.
	MinObservations int
}

// DefaultPolicy returns the stock policy.
func DefaultPolicy() Policy {
	return Policy{MinObservations: 3}
}

// #endregion policy

// #region checker

// Checker evaluates inductive steps against a fixed policy.
// Stateless apart from the policy; safe for concurrent use.
type Checker struct {
	policy Policy
}

// NewChecker creates a checker with the given policy.
func NewChecker(policy Policy) *Checker {
	if policy.MinObservations <= 0 {
		policy.MinObservations = DefaultPolicy().MinObservations
	}
	return &Checker{policy: policy}
}

// Check applies the schema-specific acceptance policy to a step.
func (c *Checker) Check(step logic.InductiveStep) Verdict {
	if step.Confidence < 0 || step.Confidence > 1 {
		return invalid(step, ReasonConfidenceOutOfRange,
			fmt.Sprintf("confidence %.3f outside [0,1]", step.Confidence))
	}

	switch step.Schema {
	case logic.SchemaEnumerative:
		return c.checkEnumerative(step)
	case logic.SchemaAnalogical:
		return c.checkAnalogical(step)
	case logic.SchemaAbductive:
		return c.checkAbductive(step)
	}
	return invalid(step, ReasonUnknownSchema, fmt.Sprintf("schema %q", step.Schema))
}

// #endregion checker

// #region enumerative

// ConfidenceCap is the maximum declared confidence an enumerative
// generalization over n observations may carry: 1 - 1/(n+1). A
// policy placeholder, not a law of induction.
func ConfidenceCap(sampleCount int) float64 {
	if sampleCount < 0 {
		sampleCount = 0
	}
	return 1.0 - 1.0/float64(sampleCount+1)
}

func (c *Checker) checkEnumerative(step logic.InductiveStep) Verdict {
	n := len(step.Observations)

	// The cap is checked before the count floor: a small sample with an
	// inflated confidence is an overclaim, not just a short sample.
	if cap := ConfidenceCap(n); step.Confidence > cap {
		return invalid(step, ReasonOverconfidentGeneralization,
			fmt.Sprintf("confidence %.3f exceeds cap %.3f for %d observations", step.Confidence, cap, n))
	}
	if n < c.policy.MinObservations {
		return invalid(step, ReasonTooFewObservations,
			fmt.Sprintf("%d observations, policy requires %d", n, c.policy.MinObservations))
	}
	for _, obs := range step.Observations {
		if obs.Predicate != step.Conclusion.Predicate {
			return invalid(step, ReasonPredicateMismatch,
				fmt.Sprintf("observation %q does not share the generalization predicate %q",
					obs, step.Conclusion.Predicate))
		}
	}
	return valid(step)
}

// #endregion enumerative

// #region analogical

func (c *Checker) checkAnalogical(step logic.InductiveStep) Verdict {
	if len(step.SimilarityDims) == 0 {
		return invalid(step, ReasonNoSimilarityDims, "analogical step declares no similarity dimensions")
	}
	// Analogy never licenses universal certainty.
	if step.Conclusion.Quantifier.Universal() {
		return invalid(step, ReasonIllicitUniversalFromAnalogy,
			fmt.Sprintf("analogy cannot assert %q", step.Conclusion.Quantifier))
	}
	return valid(step)
}

// #endregion analogical

// #region abductive

func (c *Checker) checkAbductive(step logic.InductiveStep) Verdict {
	// The alternatives field must be declared, even if empty: the step
	// has to acknowledge competing hypotheses.
	if step.Alternatives == nil {
		return invalid(step, ReasonNoAlternatives, "abductive step declares no alternative explanations field")
	}
	return valid(step)
}

// #endregion abductive

// #region helpers

func valid(step logic.InductiveStep) Verdict {
	return Verdict{Valid: true, Reason: ReasonNone, Confidence: step.Confidence}
}

func invalid(step logic.InductiveStep, reason ReasonCode, detail string) Verdict {
	return Verdict{Valid: false, Reason: reason, Detail: detail, Confidence: step.Confidence}
}

// #endregion helpers
