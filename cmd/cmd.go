// Package cmd defines the command-line interface for rankeval.
package cmd

import (
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the results subcommands to the parent results command
	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("candidate-root", contract.DefaultCandidateRoot, "Root directory holding one candidate folder per relevance prefix")
	rootCmd.PersistentFlags().String("cutoffs", contract.DefaultCutoffs, "Comma-separated NDCG cutoffs (0 = whole list)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.CSVOut), "Output format: csv or text or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Path to write output to ('-' for stdout)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for NDCG values")
	rootCmd.PersistentFlags().Int("penalty-prefix-len", contract.DefaultPenaltyPrefixLen, "Characters stripped from the fourth filename token before parsing the penalty")
	rootCmd.PersistentFlags().Bool("keep-unclosed", false, "Keep a strategy list left open at end of file instead of dropping it")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("results-backend", "", "Results tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("results-db-connect", "", "Database connection string for the results backend (SQLite file path or mysql/postgresql DSN)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of evaluateCmd to Viper
	evaluateCmd.Flags().Bool("fail-on-error", false, "Exit with status 1 when any pair fails")
	if err := viper.BindPFlags(evaluateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding evaluate flags", err)
	}

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}
