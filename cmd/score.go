package cmd

import (
	"github.com/huangsam/rankeval/core"
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd evaluates a single relevance/ranking pair.
var scoreCmd = &cobra.Command{
	Use:   "score <relevance-file> <ranking-file>",
	Short: "Score one ranking file against one relevance CSV.",
	Long: `Compute tie-aware NDCG for every strategy of a single ranking file.

Rows go to stdout unless --output-file is given. The ranking file name must follow
the candidate naming convention so the scenario, variant, weight and penalty
columns can be filled in.

Examples:
  rankeval score relevance/alpha_base.csv candidates/alpha/alpha_base_w1_pen5.txt
  rankeval score rel.csv alpha_base_w1_pen5.txt --cutoffs 10 --output json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteScore(rootCtx, cfg, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot score ranking", err)
		}
	},
}
