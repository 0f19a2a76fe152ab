package induction

import (
	"math"
	"testing"

	"github.com/proofloop/proofloop/internal/logic"
)

// #region helpers
func observations(n int, predicate string) []logic.Proposition {
	subjects := []string{"swan-a", "swan-b", "swan-c", "swan-d", "swan-e"}
	obs := make([]logic.Proposition, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, logic.MustNew("Some", subjects[i%len(subjects)], predicate))
	}
	return obs
}

// #endregion helpers

// #region test-enumerative
func TestEnumerativeOverconfidentSmallSample(t *testing.T) {
	// Two observations cap confidence at 1 - 1/3.
	c := NewChecker(Policy{MinObservations: 3})
	step := logic.InductiveStep{
		Schema:       logic.SchemaEnumerative,
		Observations: observations(2, "white"),
		Conclusion:   logic.MustNew("All", "swans", "white"),
		Confidence:   0.9,
	}
	v := c.Check(step)
	if v.Valid {
		t.Fatal("expected invalid")
	}
	if v.Reason != ReasonOverconfidentGeneralization {
		t.Errorf("expected %s, got %s", ReasonOverconfidentGeneralization, v.Reason)
	}
	if v.Confidence != 0.9 {
		t.Errorf("checker must not rescale declared confidence, got %.3f", v.Confidence)
	}
}

func TestEnumerativeTooFewObservations(t *testing.T) {
	c := NewChecker(Policy{MinObservations: 3})
	step := logic.InductiveStep{
		Schema:       logic.SchemaEnumerative,
		Observations: observations(2, "white"),
		Conclusion:   logic.MustNew("All", "swans", "white"),
		Confidence:   0.5, // under the 0.667 cap, so the count floor fires
	}
	v := c.Check(step)
	if v.Valid || v.Reason != ReasonTooFewObservations {
		t.Errorf("expected %s, got valid=%v reason=%s", ReasonTooFewObservations, v.Valid, v.Reason)
	}
}

func TestEnumerativePredicateMismatch(t *testing.T) {
	c := NewChecker(DefaultPolicy())
	obs := observations(3, "white")
	obs[1] = logic.MustNew("Some", "swan-b", "grey")
	step := logic.InductiveStep{
		Schema:       logic.SchemaEnumerative,
		Observations: obs,
		Conclusion:   logic.MustNew("All", "swans", "white"),
		Confidence:   0.6,
	}
	v := c.Check(step)
	if v.Valid || v.Reason != ReasonPredicateMismatch {
		t.Errorf("expected %s, got valid=%v reason=%s", ReasonPredicateMismatch, v.Valid, v.Reason)
	}
}

func TestEnumerativeAccepted(t *testing.T) {
	c := NewChecker(Policy{MinObservations: 3})
	step := logic.InductiveStep{
		Schema:       logic.SchemaEnumerative,
		Observations: observations(4, "white"),
		Conclusion:   logic.MustNew("All", "swans", "white"),
		Confidence:   0.75, // cap for 4 observations is 0.8
	}
	v := c.Check(step)
	if !v.Valid {
		t.Fatalf("expected valid, got %s: %s", v.Reason, v.Detail)
	}
	if v.Confidence != 0.75 {
		t.Errorf("confidence passed through wrong: %.3f", v.Confidence)
	}
}

func TestConfidenceCap(t *testing.T) {
	cases := []struct {
		n   int
		cap float64
	}{
		{0, 0.0},
		{1, 0.5},
		{2, 1.0 / 1.5},
		{4, 0.8},
		{9, 0.9},
	}
	for _, tc := range cases {
		if got := ConfidenceCap(tc.n); math.Abs(got-tc.cap) > 1e-9 {
			t.Errorf("cap(%d) = %.4f, want %.4f", tc.n, got, tc.cap)
		}
	}
}

// #endregion test-enumerative

// #region test-analogical
func TestAnalogicalRejectsUniversal(t *testing.T) {
	c := NewChecker(DefaultPolicy())
	for _, q := range []string{"All", "No"} {
		step := logic.InductiveStep{
			Schema:         logic.SchemaAnalogical,
			Observations:   observations(1, "habitable"),
			Conclusion:     logic.MustNew(q, "exoplanets", "habitable"),
			Confidence:     0.4,
			SimilarityDims: []string{"mass", "orbit"},
		}
		v := c.Check(step)
		if v.Valid || v.Reason != ReasonIllicitUniversalFromAnalogy {
			t.Errorf("%s: expected %s, got valid=%v reason=%s",
				q, ReasonIllicitUniversalFromAnalogy, v.Valid, v.Reason)
		}
	}
}

func TestAnalogicalRequiresSimilarityDims(t *testing.T) {
	c := NewChecker(DefaultPolicy())
	step := logic.InductiveStep{
		Schema:       logic.SchemaAnalogical,
		Observations: observations(1, "habitable"),
		Conclusion:   logic.MustNew("Some", "exoplanets", "habitable"),
		Confidence:   0.4,
	}
	v := c.Check(step)
	if v.Valid || v.Reason != ReasonNoSimilarityDims {
		t.Errorf("expected %s, got valid=%v reason=%s", ReasonNoSimilarityDims, v.Valid, v.Reason)
	}
}

func TestAnalogicalAccepted(t *testing.T) {
	c := NewChecker(DefaultPolicy())
	step := logic.InductiveStep{
		Schema:         logic.SchemaAnalogical,
		Observations:   observations(1, "habitable"),
		Conclusion:     logic.MustNew("Some", "exoplanets", "habitable"),
		Confidence:     0.4,
		SimilarityDims: []string{"mass"},
	}
	if v := c.Check(step); !v.Valid {
		t.Fatalf("expected valid, got %s: %s", v.Reason, v.Detail)
	}
}

// #endregion test-analogical

// #region test-abductive
func TestAbductiveRequiresDeclaredAlternatives(t *testing.T) {
	c := NewChecker(DefaultPolicy())
	step := logic.InductiveStep{
		Schema:       logic.SchemaAbductive,
		Observations: observations(1, "wet"),
		Conclusion:   logic.MustNew("Some", "streets", "wet"),
		Confidence:   0.7,
	}
	v := c.Check(step)
	if v.Valid || v.Reason != ReasonNoAlternatives {
		t.Errorf("expected %s, got valid=%v reason=%s", ReasonNoAlternatives, v.Valid, v.Reason)
	}

	// Declared-but-empty acknowledges competing hypotheses and passes.
	step.Alternatives = []string{}
	v = c.Check(step)
	if !v.Valid {
		t.Fatalf("declared empty alternatives should pass, got %s", v.Reason)
	}
	if v.Confidence != 0.7 {
		t.Errorf("abductive confidence must pass through, got %.3f", v.Confidence)
	}
}

// #endregion test-abductive

// #region test-bounds
func TestConfidenceOutOfRange(t *testing.T) {
	c := NewChecker(DefaultPolicy())
	step := logic.InductiveStep{
		Schema:       logic.SchemaAbductive,
		Conclusion:   logic.MustNew("Some", "streets", "wet"),
		Confidence:   1.2,
		Alternatives: []string{"sprinklers"},
	}
	v := c.Check(step)
	if v.Valid || v.Reason != ReasonConfidenceOutOfRange {
		t.Errorf("expected %s, got valid=%v reason=%s", ReasonConfidenceOutOfRange, v.Valid, v.Reason)
	}
}

// #endregion test-bounds
