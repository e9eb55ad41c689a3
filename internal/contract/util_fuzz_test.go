package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCutoffs fuzzes ParseCutoffs with arbitrary comma-separated input.
func FuzzParseCutoffs(f *testing.F) {
	seeds := []string{"3,5,7,10", "0", "", ",,", "-1", "10, 3 ,3", "abc"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		cutoffs, err := ParseCutoffs(s)
		if err != nil {
			return
		}
		if len(cutoffs) == 0 {
			t.Fatalf("no cutoffs returned for %q without error", s)
		}
		seen := make(map[int]bool)
		for _, n := range cutoffs {
			if n < 0 {
				t.Fatalf("negative cutoff %d for %q", n, s)
			}
			if seen[n] {
				t.Fatalf("duplicate cutoff %d for %q", n, s)
			}
			seen[n] = true
		}
	})
}

// FuzzTruncateText fuzzes TruncateText to ensure it never exceeds the width.
func FuzzTruncateText(f *testing.F) {
	f.Add("hello world", 5)
	f.Add("", 0)
	f.Add("日本語のテキスト", 4)

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(text) > width && utf8.RuneCountInString(out) != width {
			t.Fatalf("TruncateText(%q, %d) = %q", text, width, out)
		}
	})
}
