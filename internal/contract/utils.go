package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/rankeval/schema"
)

// Color variables for console output.
var (
	ExcellentColor  = color.New(color.FgGreen, color.Bold) // ExcellentColor marks rankings close to ideal.
	GoodColor       = color.New(color.FgCyan)              // GoodColor marks solid rankings.
	FairColor       = color.New(color.FgYellow)            // FairColor marks middling rankings.
	PoorColor       = color.New(color.FgRed, color.Bold)   // PoorColor marks weak rankings.
	DegenerateColor = color.New(color.FgHiBlack)           // DegenerateColor marks undefined NDCG.
)

// GetColorLabel returns a colored quality label for console output (table).
// It uses schema.GetQualityLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(ndcg float64, degenerate bool) string {
	text := schema.GetQualityLabel(ndcg, degenerate)

	switch text {
	case schema.ExcellentLabel:
		return ExcellentColor.Sprint(text)
	case schema.GoodLabel:
		return GoodColor.Sprint(text)
	case schema.FairLabel:
		return FairColor.Sprint(text)
	case schema.PoorLabel:
		return PoorColor.Sprint(text)
	default:
		return DegenerateColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path or "-" selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" || filePath == "-" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// GetResultsDBFilePath returns the path to the SQLite DB file for the results store.
func GetResultsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".rankeval_results.db"
	}
	return filepath.Join(homeDir, ".rankeval_results.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
