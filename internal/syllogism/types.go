package syllogism

// #region reason-code

// ReasonCode identifies the classical rule a syllogism violated.
// Reason codes are verdict payload, not Go errors: the orchestrator
// feeds them back to the generator as rejection context.
type ReasonCode string

const (
	ReasonNone                  ReasonCode = "none"
	ReasonNoMiddleTerm          ReasonCode = "form:no_middle_term"
	ReasonTermMismatch          ReasonCode = "form:term_mismatch"
	ReasonUndistributedMiddle   ReasonCode = "undistributed_middle"
	ReasonIllicitMajor          ReasonCode = "illicit_major"
	ReasonIllicitMinor          ReasonCode = "illicit_minor"
	ReasonBothNegative          ReasonCode = "both_negative"
	ReasonAffirmativeConclusion ReasonCode = "affirmative_conclusion"
	ReasonNegativeConclusion    ReasonCode = "negative_conclusion"
)

// #endregion reason-code

// #region verdict

// Verdict is the outcome of validating one categorical argument.
// Identical arguments always produce identical verdicts.
type Verdict struct {
	Valid  bool
	Reason ReasonCode
	Detail string

	// Mood is the classical name (Barbara, Celarent, ...) when the
	// form is recognized, else the quantifier code (e.g. "AAA-2").
	// Only set on valid verdicts.
	Mood   string
	Figure int
}

// #endregion verdict
