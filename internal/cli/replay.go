package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proofloop/proofloop/internal/export"
	"github.com/proofloop/proofloop/internal/replay"
)

var replayFormat string

// replayCmd replays a recorded session fixture deterministically.
var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a session fixture and check it against its expectations",
	Long: `Replay runs a scripted candidate sequence through the full validation
pipeline, no network involved, and compares the terminal result with
the expectations recorded in the fixture. Validation is deterministic,
so any divergence means the rules or the retry policy changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := replay.LoadFixture(args[0])
		if err != nil {
			return err
		}

		report, err := replay.Run(cmd.Context(), f)
		if err != nil {
			return err
		}

		target, err := f.Target.ToProposition()
		if err != nil {
			return err
		}
		doc := export.NewDocument(target.String(), report.Result)
		if err := printDocument(doc, replayFormat); err != nil {
			return err
		}

		if !report.Pass() {
			fmt.Fprintf(os.Stderr, "\nreplay diverged from fixture %q:\n", report.Description)
			for _, m := range report.Mismatches {
				fmt.Fprintf(os.Stderr, "  - %s\n", m)
			}
			return fmt.Errorf("%d mismatch(es)", len(report.Mismatches))
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "replay matched fixture %q\n", report.Description)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "text", "output format: text, json, or yaml")
	rootCmd.AddCommand(replayCmd)
}
