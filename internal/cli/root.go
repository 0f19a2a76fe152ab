package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proofloop/proofloop/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "proofloop",
	Short: "Proofloop - validated stepwise reasoning over categorical logic",
	Long: `Proofloop builds machine-checked proofs one step at a time.

A generator proposes candidate reasoning steps; every candidate is
checked against the classical rules of the categorical syllogism (or
the inductive schema it claims) before it may enter the proof graph.
Invalid steps are rejected with a reason and retried; dead ends are
backtracked. What comes out is either a complete, auditable proof of
the target or an explicit abandonment.

The generator is never trusted: it only suggests.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("proofloop v0.1.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./proofloop.yaml, $HOME/.proofloop/proofloop.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}
