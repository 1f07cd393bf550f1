package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 0", 0, 3.14159, "3"},
		{"precision 1 rounds", 1, 4.25, "4.2"},
		{"negative value", 2, -42.567, "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtInt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "42", fmtInt(42))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"count": 3}))
	assert.Equal(t, "{\n  \"count\": 3\n}\n", buf.String())

	err := writeJSON(&buf, func() {})
	assert.ErrorContains(t, err, "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "two, three"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"two, three\"\n", buf.String())

	err = writeCSVWithHeader(io.Discard, []string{"a"}, func(*csv.Writer) error {
		return errors.New("row failure")
	})
	assert.EqualError(t, err, "row failure")
}

func TestWriteWithFile(t *testing.T) {
	withQuietStderr(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}, "Wrote text")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "x")
	assert.Error(t, err)
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "🎬 Summary", sectionTitle(&contract.Config{UseEmojis: true}, "🎬", "Summary"))
	assert.Equal(t, "Summary", sectionTitle(&contract.Config{}, "🎬", "Summary"))
}

func TestGetMaxTableKeyWidth(t *testing.T) {
	assert.Equal(t, 12, GetMaxTableKeyWidth(&contract.Config{Width: 20}))
	assert.Equal(t, 50, GetMaxTableKeyWidth(&contract.Config{Width: 80}))
	assert.Equal(t, 60, GetMaxTableKeyWidth(&contract.Config{Width: 200}))
}

// withQuietStderr silences status lines for the duration of a test.
func withQuietStderr(t *testing.T) {
	t.Helper()
	prev := writerStderr
	writerStderr = io.Discard
	t.Cleanup(func() { writerStderr = prev })
}
