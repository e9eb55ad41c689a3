package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/internal/parquet"
)

// ExecuteResultsExport exports the stored runs and rows of the global results store.
func ExecuteResultsExport(outputFile string) error {
	return ExportResults(Manager.GetResultsStore(), outputFile)
}

// ExportResults writes <outputFile>.runs.parquet and <outputFile>.results.parquet.
func ExportResults(store contract.ResultsStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("results tracking is disabled. Set --results-backend to export stored runs")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get results status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no evaluation runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total evaluation runs: %d\n", status.TotalRuns)
	fmt.Printf("Total result rows: %d\n", status.TableSizes[resultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve evaluation runs: %w", err)
	}

	results, err := store.GetAllResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve results: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetRows := parquet.ConvertStoredResults(results)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write evaluation runs: %w", err)
	}
	fmt.Printf("Exported %d evaluation runs to: %s\n", len(parquetRuns), runsFile)

	resultsFile := outputFile + ".results.parquet"
	if err := parquet.WriteRowsParquet(parquetRows, resultsFile); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	fmt.Printf("Exported %d result rows to: %s\n", len(parquetRows), resultsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")

	return nil
}
