// Package main provides a performance benchmarking tool for the rankeval CLI.
// It generates synthetic relevance tables and candidate ranking files of increasing size,
// runs evaluate against each workspace multiple times per results backend,
// and writes a CSV summary for performance analysis and documentation.
//
// Prerequisites:
// - rankeval binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic workspaces are generated
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the average evaluate time per results backend for one workspace.
type BenchmarkResult struct {
	Workspace  string
	Pairs      int
	NoneTime   string
	SQLiteTime string
}

// WorkspaceShape describes the size of one synthetic workspace.
type WorkspaceShape struct {
	Name        string
	Relevance   int // relevance files
	Candidates  int // candidate files per relevance file
	Strategies  int // strategy lists per candidate file
	ListLength  int // entries per strategy list
	TargetCount int // graded targets per source
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Workers int
	Runs    int
	Shapes  []WorkspaceShape
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Workers: 8,
		Runs:    3,
		Shapes: []WorkspaceShape{
			{Name: "small", Relevance: 4, Candidates: 4, Strategies: 3, ListLength: 20, TargetCount: 30},
			{Name: "medium", Relevance: 16, Candidates: 12, Strategies: 5, ListLength: 100, TargetCount: 150},
			{Name: "large", Relevance: 64, Candidates: 24, Strategies: 8, ListLength: 500, TargetCount: 800},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the rankeval binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("rankeval"); err != nil {
		return fmt.Errorf("rankeval binary not found in PATH")
	}
	return nil
}

// runBenchmarks generates every workspace and times evaluate against it
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d workspaces, %v timeout, %d workers, %d runs\n",
		len(config.Shapes), config.Timeout, config.Workers, config.Runs)

	for _, shape := range config.Shapes {
		root := filepath.Join(config.WorkDir, shape.Name)
		fmt.Printf("Generating %s workspace at %s\n", shape.Name, root)
		if err := generateWorkspace(root, shape); err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", shape.Name, err)
			continue
		}

		noneAvg := averageTime(runBenchmark(config, root, "none"))
		sqliteAvg := averageTime(runBenchmark(config, root, "sqlite"))
		fmt.Printf("  none: %s, sqlite: %s\n", noneAvg, sqliteAvg)

		results = append(results, BenchmarkResult{
			Workspace:  shape.Name,
			Pairs:      shape.Relevance * shape.Candidates,
			NoneTime:   noneAvg,
			SQLiteTime: sqliteAvg,
		})
	}

	return results
}

// generateWorkspace writes relevance files under root/relevance and candidates under root/candidates.
func generateWorkspace(root string, shape WorkspaceShape) error {
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(uint64(len(shape.Name)), uint64(shape.ListLength)))

	for r := range shape.Relevance {
		scenario := fmt.Sprintf("s%03d", r)
		relevanceDir := filepath.Join(root, "relevance")
		candidateDir := filepath.Join(root, "candidates", scenario)
		if err := os.MkdirAll(relevanceDir, 0o755); err != nil {
			return err
		}
		if err := os.MkdirAll(candidateDir, 0o755); err != nil {
			return err
		}

		var rel strings.Builder
		rel.WriteString("source,target,relevance\n")
		for t := range shape.TargetCount {
			fmt.Fprintf(&rel, "Q,T%d,%d\n", t, rng.IntN(4))
		}
		if err := os.WriteFile(filepath.Join(relevanceDir, scenario+"_base.csv"), []byte(rel.String()), 0o644); err != nil {
			return err
		}

		for c := range shape.Candidates {
			var rank strings.Builder
			for s := range shape.Strategies {
				fmt.Fprintf(&rank, "strategy: strat%d\n", s)
				for _, t := range rng.Perm(shape.TargetCount)[:min(shape.ListLength, shape.TargetCount)] {
					// Coarse scores so that ties are common
					fmt.Fprintf(&rank, "Q,T%d,%d\n", t, rng.IntN(10))
				}
				rank.WriteString("--\n")
			}
			name := fmt.Sprintf("%s_base_w%d_pen%02d.txt", scenario, c, c%10)
			if err := os.WriteFile(filepath.Join(candidateDir, name), []byte(rank.String()), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// runBenchmark executes rankeval evaluate multiple times with the given results backend and returns run times
func runBenchmark(config BenchmarkConfig, root, backend string) []float64 {
	args := []string{
		"evaluate", filepath.Join(root, "relevance"),
		"--candidate-root", filepath.Join(root, "candidates"),
		"--workers", strconv.Itoa(config.Workers),
		"--output-file", filepath.Join(root, "results_ndcg.csv"),
		"--results-backend", backend,
	}
	if backend == "sqlite" {
		args = append(args, "--results-db-connect", filepath.Join(root, "results.db"))
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "rankeval", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		} else {
			fmt.Printf("  run %d (%s) failed: %v\n", run, backend, err)
		}
	}
	return times
}

// averageTime formats the mean of times, or TIMEOUT when nothing succeeded
func averageTime(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Evaluation completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/rankeval_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"workspace", "pairs", "none_avg", "sqlite_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Workspace, strconv.Itoa(result.Pairs), result.NoneTime, result.SQLiteTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s (%5d pairs): none: %s, sqlite: %s\n", result.Workspace, result.Pairs, result.NoneTime, result.SQLiteTime)
	}
}
