package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintBatchSummary prints the outcome of an evaluation run to stderr so that
// it never mixes with rows written to stdout.
func PrintBatchSummary(summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	return writeBatchSummary(os.Stderr, summary, cfg, duration)
}

func writeBatchSummary(w io.Writer, summary schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	if len(summary.Failures) > 0 {
		maxWidth := GetMaxTableTextWidth(cfg)
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Ranking File", "Kind", "Error"})
		data := make([][]string, 0, len(summary.Failures))
		for _, f := range summary.Failures {
			data = append(data, []string{
				contract.TruncateText(filepath.Base(f.RankingFile), maxWidth),
				f.Kind,
				contract.TruncateText(f.Error, maxWidth+20),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	status := "✅"
	if summary.PairsFailed > 0 {
		status = "⚠️ "
	}
	if _, err := fmt.Fprintf(w, "%s Pairs: %d total, %d succeeded, %d failed\n",
		status, summary.PairsTotal, summary.PairsSucceeded, summary.PairsFailed); err != nil {
		return err
	}
	details := "Rows: " + strconv.Itoa(summary.RowsWritten)
	if summary.DegenerateRows > 0 {
		details += fmt.Sprintf(" (%d degenerate)", summary.DegenerateRows)
	}
	if summary.DroppedLists > 0 {
		details += fmt.Sprintf(", dropped unclosed lists: %d", summary.DroppedLists)
	}
	if _, err := fmt.Fprintln(w, details); err != nil {
		return err
	}
	backend := string(cfg.ResultsBackend)
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	_, err := fmt.Fprintf(w, "Evaluation completed in %v with %d workers. Results backend: %s\n", duration, cfg.Workers, backend)
	return err
}
