package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/proofloop/proofloop/internal/export"
	"github.com/proofloop/proofloop/internal/generate"
	"github.com/proofloop/proofloop/internal/logging"
	"github.com/proofloop/proofloop/internal/orchestrator"
	"github.com/proofloop/proofloop/internal/store"
)

var (
	proveFormat string
	proveDB     string
)

// proveCmd runs a live reasoning session against a problem file.
var proveCmd = &cobra.Command{
	Use:   "prove <problem.yaml>",
	Short: "Run a reasoning session toward a target conclusion",
	Long: `Prove reads a problem file (target conclusion plus axioms), drives the
configured generator toward a validated proof, and stores the finished
session. Requires OPENAI_API_KEY in the environment.

Exits non-zero when the session is abandoned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target, axioms, err := loadProblem(args[0])
		if err != nil {
			return err
		}

		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}
		proposer, err := generate.NewOpenAIProposer(cfg.GeneratorConfig(apiKey))
		if err != nil {
			return err
		}

		dbPath := cfg.Database
		if proveDB != "" {
			dbPath = proveDB
		}
		st, err := store.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		o := orchestrator.New(proposer, cfg.OrchestratorConfig())
		o.SetRecorder(logging.NewSQLRecorder(st.DB()))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, runErr := o.Run(ctx, target, axioms)
		if result.SessionID != "" {
			if err := st.SaveResult(target, result); err != nil {
				fmt.Fprintf(os.Stderr, "warning: save session: %v\n", err)
			}
		}
		if runErr != nil {
			return runErr
		}

		doc := export.NewDocument(target.String(), result)
		if err := printDocument(doc, proveFormat); err != nil {
			return err
		}
		if result.Outcome != orchestrator.OutcomeFinalized {
			return fmt.Errorf("session %s abandoned: %s", result.SessionID, result.Reason)
		}
		return nil
	},
}

// printDocument renders an export document in the requested format.
func printDocument(doc export.Document, format string) error {
	switch format {
	case "text":
		fmt.Print(doc.Render())
	case "json":
		b, err := doc.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case "yaml":
		b, err := doc.YAML()
		if err != nil {
			return err
		}
		fmt.Print(string(b))
	default:
		return fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
	}
	return nil
}

func init() {
	proveCmd.Flags().StringVarP(&proveFormat, "format", "f", "text", "output format: text, json, or yaml")
	proveCmd.Flags().StringVar(&proveDB, "db", "", "session database path (overrides config)")
	rootCmd.AddCommand(proveCmd)
}
