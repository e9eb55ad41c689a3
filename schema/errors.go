package schema

import (
	"errors"
	"fmt"
)

// Error kinds reported in batch summaries.
const (
	ConfigErrorKind     = "config"
	ParseErrorKind      = "parse"
	LookupErrorKind     = "lookup"
	IOErrorKind         = "io"
	DegenerateErrorKind = "degenerate"
)

// ErrDegenerateRanking is returned when the ideal DCG is zero, so NDCG is undefined.
var ErrDegenerateRanking = errors.New("ideal DCG is zero; NDCG is undefined")

// ConfigError reports an invalid command line or configuration input.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ParseError reports a malformed row or line in an input file.
// Line is 1-based; zero means the error is not tied to a line.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// LookupError reports a ranking entry absent from the relevance table.
type LookupError struct {
	Source string
	Target string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no relevance grade for (%s, %s)", e.Source, e.Target)
}

// GradeError reports a relevance grade that is not a non-negative integer.
type GradeError struct {
	Source string
	Target string
	Value  string
}

func (e *GradeError) Error() string {
	return fmt.Sprintf("invalid relevance grade %q for (%s, %s)", e.Value, e.Source, e.Target)
}

// ErrorKind classifies an error for reporting.
func ErrorKind(err error) string {
	var cfgErr *ConfigError
	var parseErr *ParseError
	var lookupErr *LookupError
	var gradeErr *GradeError
	switch {
	case errors.As(err, &cfgErr):
		return ConfigErrorKind
	case errors.As(err, &parseErr), errors.As(err, &gradeErr):
		return ParseErrorKind
	case errors.As(err, &lookupErr):
		return LookupErrorKind
	case errors.Is(err, ErrDegenerateRanking):
		return DegenerateErrorKind
	default:
		return IOErrorKind
	}
}
