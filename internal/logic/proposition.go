package logic

// #region imports
import (
	"errors"
	"fmt"
	"strings"
)

// #endregion imports

// #region errors

// ErrMalformedProposition is returned when a proposition cannot be
// constructed: unknown quantifier, empty term, or subject == predicate.
var ErrMalformedProposition = errors.New("malformed proposition")

// #endregion errors

// #region term

// Term identifies a class or individual referenced by a proposition.
// Equality is by normalized string.
type Term string

// NewTerm normalizes raw text into a Term (trimmed, lowercased).
func NewTerm(raw string) Term {
	return Term(strings.ToLower(strings.TrimSpace(raw)))
}

func (t Term) String() string {
	return string(t)
}

// #endregion term

// #region quantifier

// Quantifier is one of the four categorical quantifiers.
type Quantifier string

const (
	All     Quantifier = "All"      // universal affirmative (A)
	No      Quantifier = "No"       // universal negative (E)
	Some    Quantifier = "Some"     // particular affirmative (I)
	SomeNot Quantifier = "SomeNot"  // particular negative (O)
)

// ParseQuantifier maps wire spellings onto a Quantifier.
// Accepts the canonical forms plus "Some...not" as written by the
// formalizer boundary.
func ParseQuantifier(raw string) (Quantifier, error) {
	switch strings.TrimSpace(raw) {
	case "All", "all":
		return All, nil
	case "No", "no":
		return No, nil
	case "Some", "some":
		return Some, nil
	case "SomeNot", "Some...not", "some...not", "Some not":
		return SomeNot, nil
	}
	return "", fmt.Errorf("%w: unknown quantifier %q", ErrMalformedProposition, raw)
}

// Letter returns the classical vowel for the quantifier (A/E/I/O).
func (q Quantifier) Letter() string {
	switch q {
	case All:
		return "A"
	case No:
		return "E"
	case Some:
		return "I"
	case SomeNot:
		return "O"
	}
	return "?"
}

// Universal reports whether the quantifier makes a claim about every
// member of the subject class.
func (q Quantifier) Universal() bool {
	return q == All || q == No
}

// Negative reports the quality of the quantifier.
func (q Quantifier) Negative() bool {
	return q == No || q == SomeNot
}

// #endregion quantifier

// #region proposition

// Proposition is a categorical statement "[Quantifier] S are (not) P".
// Immutable once constructed; construct via New.
type Proposition struct {
	Quantifier Quantifier
	Subject    Term
	Predicate  Term
}

// New constructs a Proposition from raw parts, normalizing terms.
// Fails with ErrMalformedProposition if the quantifier is unknown,
// either term is empty, or subject equals predicate (degenerate).
func New(quantifier, subject, predicate string) (Proposition, error) {
	q, err := ParseQuantifier(quantifier)
	if err != nil {
		return Proposition{}, err
	}
	s := NewTerm(subject)
	p := NewTerm(predicate)
	if s == "" || p == "" {
		return Proposition{}, fmt.Errorf("%w: empty term", ErrMalformedProposition)
	}
	if s == p {
		return Proposition{}, fmt.Errorf("%w: subject equals predicate %q", ErrMalformedProposition, s)
	}
	return Proposition{Quantifier: q, Subject: s, Predicate: p}, nil
}

// MustNew is New for statically known-good literals (tests, fixtures).
func MustNew(quantifier, subject, predicate string) Proposition {
	p, err := New(quantifier, subject, predicate)
	if err != nil {
		panic(err)
	}
	return p
}

// Negative reports the quality of the proposition.
func (p Proposition) Negative() bool {
	return p.Quantifier.Negative()
}

// DistributesSubject reports whether the proposition makes a claim
// about every member of the subject class. Universal propositions
// distribute their subject.
func (p Proposition) DistributesSubject() bool {
	return p.Quantifier.Universal()
}

// DistributesPredicate reports whether the predicate is distributed.
// Negative propositions distribute their predicate.
func (p Proposition) DistributesPredicate() bool {
	return p.Quantifier.Negative()
}

// Distributes reports distribution for a specific term of this
// proposition. A term that does not occur is never distributed.
func (p Proposition) Distributes(t Term) bool {
	switch t {
	case p.Subject:
		return p.DistributesSubject()
	case p.Predicate:
		return p.DistributesPredicate()
	}
	return false
}

// Mentions reports whether the term occurs as subject or predicate.
func (p Proposition) Mentions(t Term) bool {
	return p.Subject == t || p.Predicate == t
}

// Equal reports value equality of two propositions.
func (p Proposition) Equal(o Proposition) bool {
	return p.Quantifier == o.Quantifier && p.Subject == o.Subject && p.Predicate == o.Predicate
}

func (p Proposition) String() string {
	if p.Quantifier == SomeNot {
		return fmt.Sprintf("Some %s are not %s", p.Subject, p.Predicate)
	}
	return fmt.Sprintf("%s %s are %s", p.Quantifier, p.Subject, p.Predicate)
}

// #endregion proposition
