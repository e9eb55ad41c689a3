package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintInspectResults prints the strategy summaries of parsed ranking files.
// JSON output is honored; every other mode renders a table to stdout.
func PrintInspectResults(results []schema.InspectResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeInspectTable(w, results, cfg)
	}, "Wrote table")
}

func writeInspectTable(w io.Writer, results []schema.InspectResult, cfg *contract.Config) error {
	maxWidth := GetMaxTableTextWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"File", "Strategy", "Entries", "Distinct Scores", "Tied Entries"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range results {
		file := contract.TruncateText(r.Path, maxWidth)
		for _, s := range r.Strategies {
			data = append(data, []string{
				file,
				contract.TruncateText(s.Name, maxWidth),
				strconv.Itoa(s.Entries),
				strconv.Itoa(s.DistinctScore),
				strconv.Itoa(s.TiedEntries),
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range results {
		if len(r.Dropped) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: dropped unclosed lists: %s\n", r.Path, strings.Join(r.Dropped, ", ")); err != nil {
			return err
		}
	}
	return nil
}
