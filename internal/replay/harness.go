package replay

import (
	"context"
	"fmt"

	"github.com/proofloop/proofloop/internal/generate"
	"github.com/proofloop/proofloop/internal/logic"
	"github.com/proofloop/proofloop/internal/orchestrator"
)

// #region types

// Report is the outcome of replaying one fixture: the live session
// result plus every divergence from the fixture's expectations.
// Validation is deterministic, so an empty Mismatches means the run
// reproduced the recorded session exactly.
type Report struct {
	Description string
	Result      orchestrator.Result
	Mismatches  []string
}

// Pass reports whether the replay matched the fixture.
func (r Report) Pass() bool {
	return len(r.Mismatches) == 0
}

// #endregion types

// #region run

// Run replays a fixture through a scripted session: candidates are
// served in order, validated and committed exactly as live generation
// would be, and the terminal result is compared field by field against
// the fixture's expectations.
func Run(ctx context.Context, f *Fixture) (Report, error) {
	target, err := f.Target.ToProposition()
	if err != nil {
		return Report{}, fmt.Errorf("fixture target: %w", err)
	}
	axioms := make([]logic.Proposition, 0, len(f.Axioms))
	for i, ax := range f.Axioms {
		p, err := ax.ToProposition()
		if err != nil {
			return Report{}, fmt.Errorf("fixture axiom %d: %w", i, err)
		}
		axioms = append(axioms, p)
	}
	candidates, err := f.ParseCandidates()
	if err != nil {
		return Report{}, err
	}

	o := orchestrator.New(generate.NewScriptedProposer(candidates), f.Config.ToConfig())
	result, err := o.Run(ctx, target, axioms)
	if err != nil {
		return Report{}, fmt.Errorf("replay session: %w", err)
	}

	return Report{
		Description: f.Description,
		Result:      result,
		Mismatches:  compare(f.Expected, result),
	}, nil
}

// compare diffs the expected terminal shape against the actual result.
// Zero-valued count expectations are treated as unset and skipped;
// outcome is always checked.
func compare(want FixtureExpected, got orchestrator.Result) []string {
	var mismatches []string
	if want.Outcome != "" && want.Outcome != string(got.Outcome) {
		mismatches = append(mismatches,
			fmt.Sprintf("outcome: expected %s, got %s (%s)", want.Outcome, got.Outcome, got.Reason))
	}
	if want.Accepted > 0 && want.Accepted != got.Accepted {
		mismatches = append(mismatches,
			fmt.Sprintf("accepted: expected %d, got %d", want.Accepted, got.Accepted))
	}
	if want.Rejected > 0 && want.Rejected != got.Rejected {
		mismatches = append(mismatches,
			fmt.Sprintf("rejected: expected %d, got %d", want.Rejected, got.Rejected))
	}
	if want.Backtracks > 0 && want.Backtracks != got.Backtracks {
		mismatches = append(mismatches,
			fmt.Sprintf("backtracks: expected %d, got %d", want.Backtracks, got.Backtracks))
	}
	if want.ProofNodes > 0 && want.ProofNodes != len(got.Snapshot.Nodes) {
		mismatches = append(mismatches,
			fmt.Sprintf("proof nodes: expected %d, got %d", want.ProofNodes, len(got.Snapshot.Nodes)))
	}
	return mismatches
}

// #endregion run
