package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/internal/parquet"
	"github.com/huangsam/rankeval/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// csvSink streams rows to a CSV file, flushing after every batch so a
// partially completed run still leaves valid rows behind.
type csvSink struct {
	file       *os.File
	outputFile string
	writer     *csv.Writer
	fmtNDCG    func(float64, bool) string
}

func newCSVSink(outputFile string, precision int) (*csvSink, error) {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return nil, err
	}
	s := &csvSink{
		file:       file,
		outputFile: outputFile,
		writer:     csv.NewWriter(file),
		fmtNDCG:    createNDCGFormatter(precision),
	}
	if err := s.writer.Write(schema.ResultsHeader); err != nil {
		_ = closeOutput(file, outputFile, "")
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = closeOutput(file, outputFile, "")
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return s, nil
}

func (s *csvSink) WriteResults(rows []schema.EvaluationResult) error {
	for _, row := range rows {
		if err := s.writer.Write(resultRecord(row, s.fmtNDCG)); err != nil {
			return err
		}
	}
	s.writer.Flush()
	return s.writer.Error()
}

func (s *csvSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = closeOutput(s.file, s.outputFile, "")
		return err
	}
	return closeOutput(s.file, s.outputFile, "Wrote CSV")
}

// parquetSink streams rows into a Parquet file.
type parquetSink struct {
	file       *os.File
	outputFile string
	writer     *parquet.RowWriter
}

func newParquetSink(outputFile string) (*parquetSink, error) {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return nil, err
	}
	return &parquetSink{file: file, outputFile: outputFile, writer: parquet.NewRowWriter(file)}, nil
}

func (s *parquetSink) WriteResults(rows []schema.EvaluationResult) error {
	return s.writer.Write(rows)
}

func (s *parquetSink) Close() error {
	if err := s.writer.Close(); err != nil {
		_ = closeOutput(s.file, s.outputFile, "")
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return closeOutput(s.file, s.outputFile, "Wrote Parquet")
}

// bufferedSink keeps every row in memory and renders them at Close.
type bufferedSink struct {
	outputFile string
	successMsg string
	render     func(io.Writer, []schema.EvaluationResult) error
	rows       []schema.EvaluationResult
}

func (s *bufferedSink) WriteResults(rows []schema.EvaluationResult) error {
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *bufferedSink) Close() error {
	return writeWithFile(s.outputFile, func(w io.Writer) error {
		return s.render(w, s.rows)
	}, s.successMsg)
}

// resultRecord renders one row in ResultsHeader column order.
func resultRecord(row schema.EvaluationResult, fmtNDCG func(float64, bool) string) []string {
	return []string{
		row.Scenario,
		row.Variant,
		strconv.Itoa(row.N),
		strconv.Itoa(row.PenaltyWeight),
		row.WeightVariant,
		row.Strategy,
		fmtNDCG(row.NDCG, row.Degenerate),
	}
}

// writeResultsJSON writes rows as JSON records. Degenerate NDCG values are null.
func writeResultsJSON(w io.Writer, rows []schema.EvaluationResult) error {
	return writeJSON(w, schema.EnrichResults(rows))
}

// writeResultsTable renders rows as a human-readable table.
func writeResultsTable(w io.Writer, rows []schema.EvaluationResult, cfg *contract.Config) error {
	fmtNDCG := createNDCGFormatter(cfg.Precision)
	maxWidth := GetMaxTableTextWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scenario", "Variant", "N", "Penalty", "Weight", "Strategy", "NDCG", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := resultRecord(row, fmtNDCG)
		rec[5] = contract.TruncateText(rec[5], maxWidth)
		data = append(data, append(rec, getLabel(row, cfg.UseColors)))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d rows\n", len(rows))
	return err
}

// getLabel returns the quality label, colored when enabled.
func getLabel(row schema.EvaluationResult, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(row.NDCG, row.Degenerate)
	}
	return string(schema.GetQualityLabel(row.NDCG, row.Degenerate))
}
