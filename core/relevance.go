package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/rankeval/schema"
)

// LoadRelevanceTable reads a relevance judgment CSV file from disk.
func LoadRelevanceTable(path string) (schema.RelevanceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open relevance file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadRelevanceTable(f, path)
}

// ReadRelevanceTable parses relevance judgments in the form source,target,grade.
// The first line is a header and is always skipped, even when it is blank.
// A later row for the same (source, target) replaces an earlier one. Grades
// stay as text until scored. Stray quotes inside unquoted fields are kept.
func ReadRelevanceTable(r io.Reader, name string) (schema.RelevanceTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	reader.LazyQuotes = true

	table := make(schema.RelevanceTable)
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &schema.ParseError{Path: name, Line: csvErr.Line, Msg: csvErr.Err.Error()}
			}
			return nil, fmt.Errorf("failed to read relevance file %s: %w", name, err)
		}
		if header {
			header = false
			// The reader drops blank lines, so a record past line 1 means the
			// header line was empty and this record is already data.
			if line, _ := reader.FieldPos(0); line == 1 {
				continue
			}
		}
		if len(record) < 3 {
			line, _ := reader.FieldPos(0)
			return nil, &schema.ParseError{
				Path: name,
				Line: line,
				Msg:  fmt.Sprintf("expected at least 3 columns, got %d", len(record)),
			}
		}

		source := strings.TrimSpace(record[0])
		target := strings.TrimSpace(record[1])
		if _, ok := table[source]; !ok {
			table[source] = make(map[string]string)
		}
		table[source][target] = record[2]
	}
	return table, nil
}
