// Package parquet provides data structures and functions for exporting rankeval
// evaluation data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/huangsam/rankeval/schema"
	"github.com/parquet-go/parquet-go"
)

// EvaluationRun represents a single evaluation run with metadata.
// This struct maps to the rankeval_runs database table.
type EvaluationRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	PairsTotal  int32 `parquet:"pairs_total,snappy"`
	PairsFailed int32 `parquet:"pairs_failed,snappy"`
	RowsWritten int32 `parquet:"rows_written,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// EvaluationRow is one NDCG value for a strategy at a cutoff.
// This struct maps to the rankeval_results database table.
type EvaluationRow struct {
	// RunID references the parent run; zero for rows written directly by evaluate
	RunID    int64  `parquet:"run_id,snappy"`
	Scenario string `parquet:"scenario,dict,snappy"`
	Variant  string `parquet:"variant,dict,snappy"`
	Cutoff   int32  `parquet:"cutoff,snappy"`
	Penalty  int32  `parquet:"penalty,snappy"`
	Weight   string `parquet:"weight,dict,snappy"`
	Strategy string `parquet:"strategy,dict,snappy"`

	// NDCG is null when the ideal DCG is zero
	NDCG       *float64 `parquet:"ndcg,optional,snappy"`
	Degenerate bool     `parquet:"degenerate,snappy"`

	RelevanceFile string `parquet:"relevance_file,snappy"`
	RankingFile   string `parquet:"ranking_file,snappy"`
}

// WriteRunsParquet writes a slice of EvaluationRun structs to a Parquet file.
func WriteRunsParquet(data []EvaluationRun, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteRowsParquet writes a slice of EvaluationRow structs to a Parquet file.
func WriteRowsParquet(data []EvaluationRow, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

func writeParquetFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// RowWriter appends evaluation rows to a Parquet stream as they are produced.
type RowWriter struct {
	writer *parquet.GenericWriter[EvaluationRow]
}

// NewRowWriter starts a Parquet stream of evaluation rows on w.
func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{writer: parquet.NewGenericWriter[EvaluationRow](w)}
}

// Write converts and appends rows.
func (rw *RowWriter) Write(rows []schema.EvaluationResult) error {
	if _, err := rw.writer.Write(ConvertEvaluationResults(0, rows)); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// Close flushes buffered rows and writes the Parquet footer.
func (rw *RowWriter) Close() error {
	return rw.writer.Close()
}

// ConvertRunRecords converts schema.RunRecord to EvaluationRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []EvaluationRun {
	result := make([]EvaluationRun, len(records))
	for i, record := range records {
		result[i] = EvaluationRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			PairsTotal:    record.PairsTotal,
			PairsFailed:   record.PairsFailed,
			RowsWritten:   record.RowsWritten,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertStoredResults converts schema.StoredResultRecord to EvaluationRow for Parquet export.
func ConvertStoredResults(records []schema.StoredResultRecord) []EvaluationRow {
	result := make([]EvaluationRow, len(records))
	for i, record := range records {
		result[i] = EvaluationRow{
			RunID:         record.RunID,
			Scenario:      record.Scenario,
			Variant:       record.Variant,
			Cutoff:        record.Cutoff,
			Penalty:       record.Penalty,
			Weight:        record.Weight,
			Strategy:      record.Strategy,
			NDCG:          record.NDCG,
			Degenerate:    record.Degenerate,
			RelevanceFile: record.RelevanceFile,
			RankingFile:   record.RankingFile,
		}
	}
	return result
}

// ConvertEvaluationResults converts freshly computed rows to EvaluationRow.
// NaN values become null.
func ConvertEvaluationResults(runID int64, rows []schema.EvaluationResult) []EvaluationRow {
	result := make([]EvaluationRow, len(rows))
	for i, row := range rows {
		var ndcg *float64
		if !row.Degenerate && !math.IsNaN(row.NDCG) {
			v := row.NDCG
			ndcg = &v
		}
		result[i] = EvaluationRow{
			RunID:         runID,
			Scenario:      row.Scenario,
			Variant:       row.Variant,
			Cutoff:        int32(row.N),
			Penalty:       int32(row.PenaltyWeight),
			Weight:        row.WeightVariant,
			Strategy:      row.Strategy,
			NDCG:          ndcg,
			Degenerate:    row.Degenerate,
			RelevanceFile: row.RelevanceFile,
			RankingFile:   row.RankingFile,
		}
	}
	return result
}
