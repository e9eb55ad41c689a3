package outwriter

import (
	"os"

	"github.com/huangsam/rankeval/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTextWidth calculates the maximum width for the free-text column
// (strategy name or file path) in table output based on terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Scenario + Variant + N + Penalty + Weight + NDCG + Label with borders/padding
	baseWidth := 75

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
