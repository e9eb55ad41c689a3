package schema

import "math"

// ResultRecord is the JSON rendering of an EvaluationResult.
// NDCG is nil for degenerate rows since JSON has no NaN.
type ResultRecord struct {
	Scenario   string       `json:"scenario"`
	Variant    string       `json:"variant"`
	N          int          `json:"n"`
	Penalty    int          `json:"penalty"`
	Weight     string       `json:"weight"`
	Strategy   string       `json:"strategy"`
	NDCG       *float64     `json:"ndcg"`
	Degenerate bool         `json:"degenerate"`
	Label      QualityLabel `json:"label"`
}

// StrategySummary describes one strategy list of a ranking file.
type StrategySummary struct {
	Name          string `json:"name"`
	Entries       int    `json:"entries"`
	DistinctScore int    `json:"distinct_scores"`
	TiedEntries   int    `json:"tied_entries"`
}

// InspectResult is the outcome of parsing a single ranking file.
type InspectResult struct {
	Path       string            `json:"path"`
	Strategies []StrategySummary `json:"strategies"`
	Dropped    []string          `json:"dropped,omitempty"`
}

// EnrichResults converts evaluation rows into their JSON records.
func EnrichResults(rows []EvaluationResult) []ResultRecord {
	records := make([]ResultRecord, 0, len(rows))
	for _, r := range rows {
		rec := ResultRecord{
			Scenario:   r.Scenario,
			Variant:    r.Variant,
			N:          r.N,
			Penalty:    r.PenaltyWeight,
			Weight:     r.WeightVariant,
			Strategy:   r.Strategy,
			Degenerate: r.Degenerate,
			Label:      GetQualityLabel(r.NDCG, r.Degenerate),
		}
		if !r.Degenerate && !math.IsNaN(r.NDCG) {
			v := r.NDCG
			rec.NDCG = &v
		}
		records = append(records, rec)
	}
	return records
}

// GetQualityLabel buckets an NDCG value.
// - Excellent (>=0.9)
// - Good (>=0.7)
// - Fair (>=0.5)
// - Poor (<0.5)
func GetQualityLabel(ndcg float64, degenerate bool) QualityLabel {
	switch {
	case degenerate || math.IsNaN(ndcg):
		return DegenerateLabel
	case ndcg >= 0.9:
		return ExcellentLabel
	case ndcg >= 0.7:
		return GoodLabel
	case ndcg >= 0.5:
		return FairLabel
	default:
		return PoorLabel
	}
}
