package cmd

import (
	"github.com/huangsam/rankeval/core"
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/spf13/cobra"
)

// inspectCmd summarizes the strategy lists of ranking files.
var inspectCmd = &cobra.Command{
	Use:   "inspect <ranking-file>...",
	Short: "List the strategies, entry counts and ties of ranking files.",
	Long: `Parse one or more ranking files and print, per strategy, the number of
entries, distinct scores and tied entries. Lists left open at end of file are
reported as dropped unless --keep-unclosed is set.

Examples:
  rankeval inspect candidates/alpha/alpha_base_w1_pen5.txt
  rankeval inspect candidates/alpha/*.txt --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteInspect(rootCtx, cfg, args); err != nil {
			contract.LogFatal("Cannot inspect ranking files", err)
		}
	},
}
