package core

import (
	"testing"

	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidateName(t *testing.T) {
	tests := []struct {
		name      string
		prefixLen int
		want      schema.CandidateMeta
	}{
		{
			name:      "alpha_base_w1_pen5.txt",
			prefixLen: 3,
			want:      schema.CandidateMeta{Scenario: "alpha", Variant: "base", WeightVariant: "w1", PenaltyWeight: 5},
		},
		{
			name:      "/data/alpha/alpha_base_heavy_pen120_run2.out",
			prefixLen: 3,
			want:      schema.CandidateMeta{Scenario: "alpha", Variant: "base", WeightVariant: "heavy", PenaltyWeight: 120},
		},
		{
			name:      "s_v_w_w7",
			prefixLen: 1,
			want:      schema.CandidateMeta{Scenario: "s", Variant: "v", WeightVariant: "w", PenaltyWeight: 7},
		},
		{
			name:      "s_v_w_3.csv",
			prefixLen: 0,
			want:      schema.CandidateMeta{Scenario: "s", Variant: "v", WeightVariant: "w", PenaltyWeight: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCandidateName(tt.name, tt.prefixLen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCandidateNameErrors(t *testing.T) {
	tests := []struct {
		name      string
		prefixLen int
	}{
		{"alpha_base_w1.txt", 3},
		{"alpha_base_w1_pen.txt", 3},
		{"alpha_base_w1_penX.txt", 3},
		{"alpha_base_w1_p5.txt", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCandidateName(tt.name, tt.prefixLen)
			var parseErr *schema.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
