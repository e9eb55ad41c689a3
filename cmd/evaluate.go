package cmd

import (
	"github.com/huangsam/rankeval/core"
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"github.com/spf13/cobra"
)

// evaluateSetup runs the shared setup and resolves the relevance directory argument.
func evaluateSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if err := contract.ResolveRelevanceDir(cfg, args[0]); err != nil {
		return err
	}
	// Batch CSV goes to results_ndcg.csv unless told otherwise
	if cfg.OutputFile == "" && cfg.Output == schema.CSVOut {
		cfg.OutputFile = contract.DefaultOutputFile
	}
	return nil
}

// evaluateCmd runs the batch evaluation over a relevance directory.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <relevance-dir>",
	Short: "Evaluate every candidate ranking against its relevance table.",
	Long: `Pair every relevance CSV in <relevance-dir> with the candidate ranking files
named after it and compute tie-aware NDCG for each strategy at each cutoff.

For a relevance file "alpha_base.csv", the candidates are the files under
<candidate-root>/alpha whose names start with "alpha_base". Candidate names follow
<scenario>_<variant>_<weight>_<penNN>.

A pair that fails to parse or evaluate is reported and skipped; the batch goes on.
Use --fail-on-error to exit non-zero when any pair failed.

Examples:
  # Default cutoffs 3,5,7,10 written to results_ndcg.csv
  rankeval evaluate ./relevance --candidate-root ./candidates

  # Only NDCG@5 and the full list, printed as a table
  rankeval evaluate ./relevance --cutoffs 5,0 --output text

  # Track runs in SQLite and export them later
  rankeval evaluate ./relevance --results-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: evaluateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEvaluate(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run evaluation", err)
		}
	},
}
