package logic

// #region imports
import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// #endregion imports

// #region argument

// Argument is a categorical syllogism: exactly two premises and one
// conclusion. Major is by convention the premise containing the
// conclusion's predicate, Minor the one containing its subject.
// Value object: created per candidate step, discarded if rejected.
type Argument struct {
	Major      Proposition
	Minor      Proposition
	Conclusion Proposition
}

// MiddleTerm returns the term shared by both premises that is absent
// from the conclusion, and whether such a term exists.
func (a Argument) MiddleTerm() (Term, bool) {
	for _, t := range []Term{a.Major.Subject, a.Major.Predicate} {
		if a.Minor.Mentions(t) && !a.Conclusion.Mentions(t) {
			return t, true
		}
	}
	return "", false
}

// Premises returns the two premises in major, minor order.
func (a Argument) Premises() []Proposition {
	return []Proposition{a.Major, a.Minor}
}

// Figure returns the classical figure (1-4) from the middle term's
// position in the premises, or 0 when the form is degenerate.
//
//	fig 1: M-P, S-M   fig 2: P-M, S-M
//	fig 3: M-P, M-S   fig 4: P-M, M-S
func (a Argument) Figure() int {
	m, ok := a.MiddleTerm()
	if !ok {
		return 0
	}
	switch {
	case a.Major.Subject == m && a.Minor.Predicate == m:
		return 1
	case a.Major.Predicate == m && a.Minor.Predicate == m:
		return 2
	case a.Major.Subject == m && a.Minor.Subject == m:
		return 3
	case a.Major.Predicate == m && a.Minor.Subject == m:
		return 4
	}
	return 0
}

// Mood returns the three-letter quantifier code plus figure,
// e.g. "AAA-1" for Barbara.
func (a Argument) Mood() string {
	return fmt.Sprintf("%s%s%s-%d",
		a.Major.Quantifier.Letter(),
		a.Minor.Quantifier.Letter(),
		a.Conclusion.Quantifier.Letter(),
		a.Figure(),
	)
}

// Fingerprint returns a stable hash of the argument, used as a
// memoization key. Identical arguments always hash identically.
func (a Argument) Fingerprint() string {
	h := sha256.Sum256([]byte(a.Major.String() + "|" + a.Minor.String() + "|" + a.Conclusion.String()))
	return hex.EncodeToString(h[:16])
}

func (a Argument) String() string {
	return fmt.Sprintf("%s; %s ⊢ %s", a.Major, a.Minor, a.Conclusion)
}

// #endregion argument
