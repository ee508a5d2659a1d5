// Command matchctl runs the matching engine from the command line and seeds
// the candidates table.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Candidate matcher CLI",
		Long:          "matchctl analyzes job descriptions, ranks the candidate roster against them, and seeds the roster table.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("dataset", "", "Roster file (.yaml/.yml/.json); overrides DATASET_PATH")
	root.PersistentFlags().Bool("compact", false, "Emit single-line JSON")

	root.AddCommand(newAnalyzeCmd(), newMatchCmd(), newCandidatesCmd(), newSeedCmd())
	return root
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
