package outwriter

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNDCGFormatter(t *testing.T) {
	tests := []struct {
		name       string
		precision  int
		value      float64
		degenerate bool
		expected   string
	}{
		{"default precision", 6, 0.8987, false, "0.898700"},
		{"precision 2", 2, 0.8987, false, "0.90"},
		{"one", 3, 1.0, false, "1.000"},
		{"degenerate", 6, math.NaN(), true, "NaN"},
		{"nan without flag", 6, math.NaN(), false, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtNDCG := createNDCGFormatter(tt.precision)
			assert.Equal(t, tt.expected, fmtNDCG(tt.value, tt.degenerate))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"name": "test", "value": 42}))
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n", buf.String())

	buf.Reset()
	assert.Error(t, writeJSON(&buf, math.Inf(1)))
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote text")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote text")
	assert.Error(t, err)
}
