package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/rankeval/core/algo"
	"github.com/huangsam/rankeval/schema"
)

// Line prefixes of the ranking file grammar.
const (
	strategyPrefix = "strategy"
	closePrefix    = "--"
	commentPrefix  = "#"
	runtimePrefix  = "runtime"
)

// maxRankingLine bounds the length of a single ranking file line.
const maxRankingLine = 1024 * 1024

// ParseOptions controls how ranking files are parsed.
type ParseOptions struct {
	// KeepUnclosed commits a list still open at end of file instead of dropping it.
	KeepUnclosed bool
}

// ParseReport lists what the parser discarded while reading a ranking file.
type ParseReport struct {
	Dropped []string // Names of lists left open at end of file
}

// ParseRankingFile reads a ranking file from disk.
func ParseRankingFile(path string, opts ParseOptions) (*schema.RankingSet, ParseReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("failed to open ranking file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadRankingSet(f, path, opts)
}

// ReadRankingSet parses the labeled ranked lists of a ranking file.
//
// A line starting with "strategy" opens a list named by the text after its first
// ":". A line starting with "--" closes and commits the open list. Inside a list,
// comment (#) and runtime lines are skipped and every other line, blank ones
// included, is a source,target,score entry. Lines outside a list are ignored.
func ReadRankingSet(r io.Reader, name string, opts ParseOptions) (*schema.RankingSet, ParseReport, error) {
	var report ParseReport
	set := schema.NewRankingSet()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRankingLine)

	var (
		open    bool
		current string
		entries []schema.RankingEntry
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if !open {
			if !strings.HasPrefix(line, strategyPrefix) {
				continue
			}
			_, label, ok := strings.Cut(line, ":")
			if !ok {
				return nil, report, &schema.ParseError{Path: name, Line: lineNo, Msg: "strategy line has no ':' separator"}
			}
			open = true
			current = strings.TrimSpace(label)
			entries = []schema.RankingEntry{}
			continue
		}

		switch {
		case strings.HasPrefix(line, closePrefix):
			set.Commit(current, entries)
			open = false
		case strings.HasPrefix(line, commentPrefix), strings.HasPrefix(line, runtimePrefix):
			// skipped
		default:
			entry, err := parseRankingEntry(line)
			if err != nil {
				return nil, report, &schema.ParseError{Path: name, Line: lineNo, Msg: err.Error()}
			}
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("failed to read ranking file %s: %w", name, err)
	}

	if open {
		if opts.KeepUnclosed {
			set.Commit(current, entries)
		} else {
			report.Dropped = append(report.Dropped, current)
		}
	}
	return set, report, nil
}

// parseRankingEntry splits a data line into its first three fields.
func parseRankingEntry(line string) (schema.RankingEntry, error) {
	fields := strings.SplitN(line, ",", 4)
	if len(fields) < 3 {
		return schema.RankingEntry{}, fmt.Errorf("expected at least 3 comma-separated fields, got %d", len(fields))
	}
	return schema.RankingEntry{
		Source: strings.TrimSpace(fields[0]),
		Target: strings.TrimSpace(fields[1]),
		Score:  strings.TrimSpace(fields[2]),
	}, nil
}

// WriteRankingSet serializes a ranking set in the ranking file format, lists in
// commit order. Reading the output back yields the same set.
func WriteRankingSet(w io.Writer, set *schema.RankingSet) error {
	bw := bufio.NewWriter(w)
	for _, name := range set.Order {
		if _, err := fmt.Fprintf(bw, "strategy: %s\n", name); err != nil {
			return err
		}
		for _, e := range set.Lists[name] {
			if _, err := fmt.Fprintf(bw, "%s,%s,%s\n", e.Source, e.Target, e.Score); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(closePrefix + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// InspectRankingFile summarizes the strategies of a ranking file.
func InspectRankingFile(path string, opts ParseOptions) (schema.InspectResult, error) {
	set, report, err := ParseRankingFile(path, opts)
	if err != nil {
		return schema.InspectResult{}, err
	}
	return summarizeRankingSet(path, set, report), nil
}

func summarizeRankingSet(path string, set *schema.RankingSet, report ParseReport) schema.InspectResult {
	result := schema.InspectResult{
		Path:       path,
		Strategies: make([]schema.StrategySummary, 0, set.Len()),
		Dropped:    report.Dropped,
	}
	for _, name := range set.Order {
		list := set.Lists[name]
		distinct, tied := algo.CountTies(list)
		result.Strategies = append(result.Strategies, schema.StrategySummary{
			Name:          name,
			Entries:       len(list),
			DistinctScore: distinct,
			TiedEntries:   tied,
		})
	}
	return result
}
