package outwriter

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/rankeval/internal/contract"
)

// LogEvaluateHeader prints a concise, 2-line header before a batch run.
func LogEvaluateHeader(cfg *contract.Config) {
	cutoffs := make([]string, len(cfg.Cutoffs))
	for i, n := range cfg.Cutoffs {
		cutoffs[i] = fmt.Sprint(n)
	}

	// Line 1: where the inputs come from
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Relevance: %s (Candidates: %s)\n", cfg.RelevanceDir, cfg.CandidateRoot)

	// Line 2: what gets computed
	_, _ = fmt.Fprintf(os.Stderr, "📐 NDCG@{%s} with %d workers\n", strings.Join(cutoffs, ","), cfg.Workers)
}
