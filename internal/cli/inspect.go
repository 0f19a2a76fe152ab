package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/proofloop/proofloop/internal/export"
	"github.com/proofloop/proofloop/internal/logging"
	"github.com/proofloop/proofloop/internal/store"
)

var (
	inspectFormat    string
	inspectDB        string
	inspectDecisions bool
	sessionsLimit    int
)

// inspectCmd prints a stored session.
var inspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Show a stored session's proof and decision trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sum, err := st.Session(args[0])
		if err != nil {
			return err
		}
		result, err := st.LoadResult(args[0])
		if err != nil {
			return err
		}

		doc := export.NewDocument(sum.Target, result)
		if err := printDocument(doc, inspectFormat); err != nil {
			return err
		}

		if inspectDecisions {
			entries, err := logging.NewSQLRecorder(st.DB()).Decisions(args[0])
			if err != nil {
				return err
			}
			fmt.Println("\n--- Decisions ---")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tACTION\tSTATE\tREASON")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Step, e.Action, e.State, e.Reason)
			}
			w.Flush()
		}
		return nil
	},
}

// sessionsCmd lists stored sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sums, err := st.ListSessions(sessionsLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tOUTCOME\tSTEPS\tACCEPTED\tREJECTED\tTARGET")
		for _, s := range sums {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				s.SessionID, s.Outcome, s.Steps, s.Accepted, s.Rejected, s.Target)
		}
		return w.Flush()
	},
}

// openStore opens the configured session database.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dbPath := cfg.Database
	if inspectDB != "" {
		dbPath = inspectDB
	}
	return store.NewStore(dbPath)
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text", "output format: text, json, or yaml")
	inspectCmd.Flags().StringVar(&inspectDB, "db", "", "session database path (overrides config)")
	inspectCmd.Flags().BoolVar(&inspectDecisions, "decisions", false, "include the provenance decision trail")
	sessionsCmd.Flags().StringVar(&inspectDB, "db", "", "session database path (overrides config)")
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "maximum sessions to list")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(sessionsCmd)
}
