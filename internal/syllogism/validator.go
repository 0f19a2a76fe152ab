package syllogism

// #region imports
import (
	"fmt"

	"github.com/proofloop/proofloop/internal/logic"
)

// #endregion imports

// #region validate

// Validate checks an argument against the classical syllogistic rules.
// Stateless and deterministic: every rule must hold for a valid
// verdict, and the first violated rule names the reason.
func Validate(a logic.Argument) Verdict {
	s := a.Conclusion.Subject
	p := a.Conclusion.Predicate

	// Term layout: conclusion subject and predicate must each occur in
	// exactly one premise. Short-circuits before any distribution rule.
	sPrem, sCount := premiseOf(a, s)
	pPrem, pCount := premiseOf(a, p)
	if sCount != 1 || pCount != 1 {
		return invalid(ReasonTermMismatch,
			fmt.Sprintf("conclusion terms must each appear in exactly one premise (subject %q in %d, predicate %q in %d)",
				s, sCount, p, pCount))
	}

	// Rule 1: a middle term shared by both premises, absent from the
	// conclusion.
	m, ok := a.MiddleTerm()
	if !ok {
		return invalid(ReasonNoMiddleTerm, "premises share no term absent from the conclusion")
	}

	// Rule 2: the middle term must be distributed at least once.
	if !a.Major.Distributes(m) && !a.Minor.Distributes(m) {
		return invalid(ReasonUndistributedMiddle,
			fmt.Sprintf("middle term %q distributed in neither premise", m))
	}

	// Rule 3: a term distributed in the conclusion must be distributed
	// in the premise it came from.
	if a.Conclusion.DistributesPredicate() && !pPrem.Distributes(p) {
		return invalid(ReasonIllicitMajor,
			fmt.Sprintf("major term %q distributed in conclusion but not in its premise", p))
	}
	if a.Conclusion.DistributesSubject() && !sPrem.Distributes(s) {
		return invalid(ReasonIllicitMinor,
			fmt.Sprintf("minor term %q distributed in conclusion but not in its premise", s))
	}

	// Rules 4-6: quality pairing.
	negatives := 0
	for _, prem := range a.Premises() {
		if prem.Negative() {
			negatives++
		}
	}
	switch {
	case negatives == 2:
		return invalid(ReasonBothNegative, "two negative premises prove nothing")
	case negatives == 1 && !a.Conclusion.Negative():
		return invalid(ReasonAffirmativeConclusion, "a negative premise requires a negative conclusion")
	case negatives == 0 && a.Conclusion.Negative():
		return invalid(ReasonNegativeConclusion, "affirmative premises cannot yield a negative conclusion")
	}

	fig := a.Figure()
	return Verdict{
		Valid:  true,
		Reason: ReasonNone,
		Mood:   MoodName(a),
		Figure: fig,
	}
}

// #endregion validate

// #region helpers

// premiseOf returns the premise mentioning t and how many premises do.
func premiseOf(a logic.Argument, t logic.Term) (logic.Proposition, int) {
	var found logic.Proposition
	count := 0
	for _, prem := range a.Premises() {
		if prem.Mentions(t) {
			found = prem
			count++
		}
	}
	return found, count
}

func invalid(reason ReasonCode, detail string) Verdict {
	return Verdict{Valid: false, Reason: reason, Detail: detail}
}

// #endregion helpers
