package logic

// #region imports
import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// #endregion imports

// #region schema

// Schema identifies an inductive-argument schema.
type Schema string

const (
	SchemaEnumerative Schema = "enumerative"
	SchemaAnalogical  Schema = "analogical"
	SchemaAbductive   Schema = "abductive"
)

// ParseSchema maps a wire spelling onto a Schema.
func ParseSchema(raw string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(raw))) {
	case SchemaEnumerative:
		return SchemaEnumerative, nil
	case SchemaAnalogical:
		return SchemaAnalogical, nil
	case SchemaAbductive:
		return SchemaAbductive, nil
	}
	return "", fmt.Errorf("%w: unknown schema %q", ErrMalformedProposition, raw)
}

// #endregion schema

// #region inductive-step

// InductiveStep is a non-categorical inference: an ordered sequence of
// observations supporting a candidate generalization or explanation.
// Confidence is declared by the generator, never by the checker.
type InductiveStep struct {
	Schema       Schema
	Observations []Proposition
	Conclusion   Proposition
	Confidence   float64

	// SimilarityDims lists the declared dimensions of similarity for
	// analogical steps.
	SimilarityDims []string

	// Alternatives holds competing explanations for abductive steps.
	// nil means the field was never declared; an empty non-nil slice
	// means the generator explicitly acknowledged (and exhausted) the
	// alternatives. The parse boundary preserves the distinction.
	Alternatives []string
}

// Fingerprint returns a stable hash of the step for memoization.
func (s InductiveStep) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(s.Schema))
	for _, o := range s.Observations {
		b.WriteString("|")
		b.WriteString(o.String())
	}
	b.WriteString("⊢")
	b.WriteString(s.Conclusion.String())
	fmt.Fprintf(&b, "@%.4f", s.Confidence)
	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:16])
}

func (s InductiveStep) String() string {
	return fmt.Sprintf("%s(%d obs) ⊢ %s @%.2f", s.Schema, len(s.Observations), s.Conclusion, s.Confidence)
}

// #endregion inductive-step
