// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
)

// NewResultSink opens the configured output and returns a sink for evaluation rows.
// CSV and Parquet rows are written as they arrive; JSON and text need every row
// and are rendered on Close.
func NewResultSink(cfg *contract.Config) (contract.ResultSink, error) {
	switch cfg.Output {
	case schema.JSONOut:
		return &bufferedSink{outputFile: cfg.OutputFile, successMsg: "Wrote JSON", render: writeResultsJSON}, nil
	case schema.TextOut:
		return &bufferedSink{
			outputFile: cfg.OutputFile,
			successMsg: "Wrote table",
			render: func(w io.Writer, rows []schema.EvaluationResult) error {
				return writeResultsTable(w, rows, cfg)
			},
		}, nil
	case schema.ParquetOut:
		return newParquetSink(cfg.OutputFile)
	case schema.CSVOut, "":
		return newCSVSink(cfg.OutputFile, cfg.Precision)
	default:
		return nil, &schema.ConfigError{Field: "output", Msg: fmt.Sprintf("unsupported output %q", cfg.Output)}
	}
}

// closeOutput closes a non-stdout file and, given a message, reports where the output went.
func closeOutput(file *os.File, outputFile, successMsg string) error {
	if file == os.Stdout {
		return nil
	}
	if err := file.Close(); err != nil {
		return err
	}
	if successMsg != "" {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}
