// Package core has core logic for discovering, parsing and evaluating rankings.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/internal/outwriter"
	"github.com/huangsam/rankeval/schema"
)

// ErrPairsFailed is returned by ExecuteEvaluate when fail-on-error is set and
// at least one pair could not be evaluated.
var ErrPairsFailed = errors.New("one or more pairs failed")

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteEvaluate runs the batch evaluation and writes rows to the configured output.
// It serves as the main entry point for the 'evaluate' command.
func ExecuteEvaluate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogEvaluateHeader(cfg)
	}

	sink, err := outwriter.NewResultSink(cfg)
	if err != nil {
		return err
	}
	summary, runErr := GetEvaluateResults(ctx, cfg, mgr, sink)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to finalize output: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	if !shouldSuppressHeader(ctx) {
		if err := outwriter.PrintBatchSummary(summary, cfg, time.Since(start)); err != nil {
			return err
		}
	}
	if cfg.FailOnError && summary.PairsFailed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrPairsFailed, summary.PairsFailed, summary.PairsTotal)
	}
	return nil
}

// ExecuteScore evaluates a single relevance file against a single ranking file.
func ExecuteScore(ctx context.Context, cfg *contract.Config, relevanceFile, rankingFile string) error {
	pair := schema.EvaluationPair{RelevanceFile: relevanceFile, RankingFile: rankingFile}
	rows, report, err := EvaluatePair(cfg, pair)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		for _, name := range report.Dropped {
			contract.LogWarn(fmt.Sprintf("Dropped unclosed list in %s", rankingFile),
				fmt.Errorf("strategy %q has no closing '--' line", name))
		}
	}

	sink, err := outwriter.NewResultSink(cfg)
	if err != nil {
		return err
	}
	if err := sink.WriteResults(rows); err != nil {
		_ = sink.Close()
		return err
	}
	return sink.Close()
}

// ExecuteInspect parses ranking files and prints a summary of their strategies.
func ExecuteInspect(_ context.Context, cfg *contract.Config, paths []string) error {
	results := make([]schema.InspectResult, 0, len(paths))
	for _, path := range paths {
		result, err := InspectRankingFile(path, ParseOptions{KeepUnclosed: cfg.KeepUnclosed})
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	return outwriter.PrintInspectResults(results, cfg)
}
