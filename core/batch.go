package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/rankeval/core/algo"
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"golang.org/x/sync/errgroup"
)

// relevanceJob groups the pairs sharing one relevance file, so the table is
// loaded and its ideal DCGs are computed once.
type relevanceJob struct {
	relevanceFile string
	pairs         []schema.EvaluationPair
}

// pairOutcome is what a worker hands to the writer for one pair.
type pairOutcome struct {
	pair    schema.EvaluationPair
	rows    []schema.EvaluationResult
	dropped []string
	err     error
}

// DiscoverPairs matches every relevance file of cfg.RelevanceDir with the
// candidate ranking files named after it. For a relevance file like
// "alpha_one.csv" the candidates are the files under <CandidateRoot>/alpha whose
// names start with "alpha_one". Pairs are returned in directory order.
func DiscoverPairs(cfg *contract.Config) ([]schema.EvaluationPair, error) {
	entries, err := os.ReadDir(cfg.RelevanceDir)
	if err != nil {
		return nil, &schema.ConfigError{Field: "relevance-dir", Msg: err.Error()}
	}

	var pairs []schema.EvaluationPair
	for _, entry := range entries {
		relevancePath := filepath.Join(cfg.RelevanceDir, entry.Name())
		if !isRegularFile(relevancePath) {
			continue
		}

		folder, _, _ := strings.Cut(entry.Name(), "_")
		scenario := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		candidateDir := filepath.Join(cfg.CandidateRoot, folder)
		if info, err := os.Stat(candidateDir); err != nil || !info.IsDir() {
			continue
		}

		candidates, err := os.ReadDir(candidateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates in %s: %w", candidateDir, err)
		}
		for _, candidate := range candidates {
			if !strings.HasPrefix(candidate.Name(), scenario) {
				continue
			}
			candidatePath := filepath.Join(candidateDir, candidate.Name())
			if !isRegularFile(candidatePath) {
				continue
			}
			pairs = append(pairs, schema.EvaluationPair{
				RelevanceFile: relevancePath,
				RankingFile:   candidatePath,
				Scenario:      scenario,
			})
		}
	}
	return pairs, nil
}

// isRegularFile reports whether path is a regular file, following symlinks.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EvaluatePair scores every strategy of one ranking file against one relevance
// file at every configured cutoff. Any error fails the whole pair.
func EvaluatePair(cfg *contract.Config, pair schema.EvaluationPair) ([]schema.EvaluationResult, ParseReport, error) {
	table, err := LoadRelevanceTable(pair.RelevanceFile)
	if err != nil {
		return nil, ParseReport{}, err
	}
	ideals, err := algo.IdealDCGs(table, cfg.Cutoffs)
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("%s: %w", pair.RelevanceFile, err)
	}
	return evaluateCandidate(cfg, pair, table, ideals)
}

// evaluateCandidate scores a ranking file against an already loaded table.
// Rows are ordered by cutoff, then by strategy order in the file.
func evaluateCandidate(cfg *contract.Config, pair schema.EvaluationPair, table schema.RelevanceTable, ideals map[int]float64) ([]schema.EvaluationResult, ParseReport, error) {
	meta, err := ParseCandidateName(pair.RankingFile, cfg.PenaltyPrefixLen)
	if err != nil {
		return nil, ParseReport{}, err
	}
	set, report, err := ParseRankingFile(pair.RankingFile, ParseOptions{KeepUnclosed: cfg.KeepUnclosed})
	if err != nil {
		return nil, report, err
	}

	rows := make([]schema.EvaluationResult, 0, len(cfg.Cutoffs)*set.Len())
	for _, n := range cfg.Cutoffs {
		for _, strategy := range set.Order {
			ndcg, err := algo.ComputeNDCG(set.Lists[strategy], table, ideals[n], n)
			degenerate := errors.Is(err, schema.ErrDegenerateRanking)
			if err != nil && !degenerate {
				return nil, report, fmt.Errorf("%s: strategy %q: %w", pair.RankingFile, strategy, err)
			}
			rows = append(rows, schema.EvaluationResult{
				CandidateMeta: meta,
				N:             n,
				Strategy:      strategy,
				NDCG:          ndcg,
				Degenerate:    degenerate,
				RelevanceFile: pair.RelevanceFile,
				RankingFile:   pair.RankingFile,
			})
		}
	}
	return rows, report, nil
}

// groupByRelevance splits pairs into per relevance file jobs, keeping order.
func groupByRelevance(pairs []schema.EvaluationPair) []relevanceJob {
	var jobs []relevanceJob
	index := make(map[string]int)
	for _, p := range pairs {
		i, ok := index[p.RelevanceFile]
		if !ok {
			i = len(jobs)
			index[p.RelevanceFile] = i
			jobs = append(jobs, relevanceJob{relevanceFile: p.RelevanceFile})
		}
		jobs[i].pairs = append(jobs[i].pairs, p)
	}
	return jobs
}

// runJob evaluates every pair of a job and sends one outcome per pair.
func runJob(ctx context.Context, cfg *contract.Config, job relevanceJob, outcomes chan<- pairOutcome) error {
	send := func(out pairOutcome) error {
		select {
		case outcomes <- out:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	table, err := LoadRelevanceTable(job.relevanceFile)
	var ideals map[int]float64
	if err == nil {
		ideals, err = algo.IdealDCGs(table, cfg.Cutoffs)
		if err != nil {
			err = fmt.Errorf("%s: %w", job.relevanceFile, err)
		}
	}

	for _, pair := range job.pairs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out := pairOutcome{pair: pair, err: err}
		if err == nil {
			var report ParseReport
			out.rows, report, out.err = evaluateCandidate(cfg, pair, table, ideals)
			out.dropped = report.Dropped
		}
		if sendErr := send(out); sendErr != nil {
			return sendErr
		}
	}
	return nil
}

// GetEvaluateResults evaluates all discovered pairs with a bounded worker pool
// and streams their rows to sink from a single goroutine. A failing pair is
// counted and logged but never stops the run.
func GetEvaluateResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, sink contract.ResultSink) (schema.BatchSummary, error) {
	var summary schema.BatchSummary

	pairs, err := DiscoverPairs(cfg)
	if err != nil {
		return summary, err
	}
	summary.PairsTotal = len(pairs)

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	var store contract.ResultsStore
	if mgr != nil {
		store = mgr.GetResultsStore()
	}
	if store != nil {
		runID, err = store.BeginRun(time.Now(), cfg.Params())
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	// --- 1. Dispatch jobs to workers ---
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan pairOutcome, max(cfg.Workers, 1))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	var dispatchErr error
	go func() {
		for _, job := range groupByRelevance(pairs) {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				return runJob(gctx, cfg, job, outcomes)
			})
		}
		dispatchErr = g.Wait()
		close(outcomes)
	}()

	// --- 2. Single writer ---
	var writeErr error
	for out := range outcomes {
		if writeErr != nil {
			continue
		}
		if writeErr = consumeOutcome(ctx, out, sink, store, runID, &summary); writeErr != nil {
			cancel()
		}
	}

	// --- 3. End Run Tracking ---
	if store != nil && runID > 0 {
		if err := store.EndRun(runID, time.Now(), summary); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	if writeErr != nil {
		return summary, writeErr
	}
	if dispatchErr != nil {
		return summary, dispatchErr
	}
	return summary, ctx.Err()
}

// consumeOutcome writes the rows of a successful pair and updates the summary.
// Only sink failures are returned.
func consumeOutcome(ctx context.Context, out pairOutcome, sink contract.ResultSink, store contract.ResultsStore, runID int64, summary *schema.BatchSummary) error {
	for _, name := range out.dropped {
		summary.DroppedLists++
		if !shouldSuppressHeader(ctx) {
			contract.LogWarn(fmt.Sprintf("Dropped unclosed list in %s", out.pair.RankingFile),
				fmt.Errorf("strategy %q has no closing '--' line", name))
		}
	}

	if out.err != nil {
		summary.PairsFailed++
		summary.Failures = append(summary.Failures, schema.PairFailure{
			EvaluationPair: out.pair,
			Kind:           schema.ErrorKind(out.err),
			Error:          out.err.Error(),
		})
		if !shouldSuppressHeader(ctx) {
			contract.LogWarn(fmt.Sprintf("Skipping %s", out.pair.RankingFile), out.err)
		}
		return nil
	}

	if err := sink.WriteResults(out.rows); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	summary.PairsSucceeded++
	summary.RowsWritten += len(out.rows)
	for _, row := range out.rows {
		if row.Degenerate {
			summary.DegenerateRows++
		}
	}

	if store != nil && runID > 0 {
		if err := store.RecordResults(runID, out.rows); err != nil {
			contract.LogWarn("Failed to record results", err)
		}
	}
	return nil
}
