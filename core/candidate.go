package core

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/rankeval/schema"
)

// ParseCandidateName extracts evaluation metadata from a ranking file name of
// the form <scenario>_<variant>_<weight>_<prefix><penalty>[_...].<ext>.
// The first penaltyPrefixLen characters of the fourth token are skipped before
// the penalty weight is read as an integer.
func ParseCandidateName(name string, penaltyPrefixLen int) (schema.CandidateMeta, error) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	tokens := strings.Split(stem, "_")
	if len(tokens) < 4 {
		return schema.CandidateMeta{}, &schema.ParseError{
			Path: name,
			Msg:  fmt.Sprintf("candidate name needs 4 '_' separated tokens, got %d", len(tokens)),
		}
	}

	token := tokens[3]
	if len(token) <= penaltyPrefixLen {
		return schema.CandidateMeta{}, &schema.ParseError{
			Path: name,
			Msg:  fmt.Sprintf("penalty token %q is too short for a %d character prefix", token, penaltyPrefixLen),
		}
	}
	penalty, err := strconv.Atoi(token[penaltyPrefixLen:])
	if err != nil {
		return schema.CandidateMeta{}, &schema.ParseError{
			Path: name,
			Msg:  fmt.Sprintf("invalid penalty weight in %q", token),
		}
	}

	return schema.CandidateMeta{
		Scenario:      tokens[0],
		Variant:       tokens[1],
		WeightVariant: tokens[2],
		PenaltyWeight: penalty,
	}, nil
}
