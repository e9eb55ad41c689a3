package contract

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/rankeval/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name       string
		ndcg       float64
		degenerate bool
		label      schema.QualityLabel
	}{
		{"poor", 0.3, false, schema.PoorLabel},
		{"fair", 0.5, false, schema.FairLabel},
		{"good", 0.75, false, schema.GoodLabel},
		{"excellent", 1.0, false, schema.ExcellentLabel},
		{"degenerate", math.NaN(), true, schema.DegenerateLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.ndcg, tt.degenerate)
			assert.Contains(t, result, string(tt.label))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("dash returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("-")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.csv")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetResultsDBFilePath(t *testing.T) {
	path := GetResultsDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".rankeval_results.db"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcdefg...", TruncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}
