package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUploads() []schema.UploadedFile {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []schema.UploadedFile{
		{ID: "a1", SessionID: "session_1_abc", Name: "watched.csv", Size: 120, Type: schema.WatchedFile, UploadedAt: at},
		{ID: "b2", SessionID: "session_1_abc", Name: "ratings.csv", Size: 80, Type: schema.RatingsFile, UploadedAt: at.Add(time.Minute)},
	}
}

func TestWriteUploadsTable(t *testing.T) {
	cfg := &contract.Config{Width: 120}

	var buf bytes.Buffer
	require.NoError(t, writeUploadsTable(&buf, "session_1_abc", sampleUploads(), cfg))
	out := buf.String()
	assert.Contains(t, out, "Session: session_1_abc")
	assert.Contains(t, out, "Uploaded Files")
	assert.Contains(t, out, "watched.csv")
	assert.Contains(t, out, "ratings")

	buf.Reset()
	require.NoError(t, writeUploadsTable(&buf, "session_1_abc", nil, cfg))
	assert.Contains(t, buf.String(), "No files uploaded.")
}

func TestWriteUploadsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUploadsCSV(&buf, sampleUploads()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "name", "type", "size", "uploaded_at"}, records[0])
	assert.Equal(t, []string{"a1", "watched.csv", "watched", "120", "2024-03-01T12:00:00Z"}, records[1])
}

func TestWriteUploadsJSON(t *testing.T) {
	withQuietStderr(t)
	path := filepath.Join(t.TempDir(), "uploads.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, WriteUploads("session_1_abc", sampleUploads(), cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "ratings.csv"`)
}

func TestWriteValidation(t *testing.T) {
	valid := schema.ValidationResult{FileType: schema.RatingsFile, Valid: true, Headers: []string{"Name", "Rating"}, RowCount: 2}
	invalid := schema.ValidationResult{FileType: schema.WatchedFile, Errors: []string{`Missing required column: "Name"`}, Headers: []string{"Date"}}

	t.Run("text", func(t *testing.T) {
		cfg := &contract.Config{UseEmojis: true}
		var buf bytes.Buffer
		require.NoError(t, writeValidationText(&buf, "ratings.csv", valid, cfg))
		assert.Equal(t, "✅ ratings.csv (ratings): valid, 2 rows\n  Headers: Name, Rating\n", buf.String())

		buf.Reset()
		require.NoError(t, writeValidationText(&buf, "watched.csv", invalid, &contract.Config{}))
		assert.Contains(t, buf.String(), "watched.csv (watched): invalid, 0 rows")
		assert.Contains(t, buf.String(), `  - Missing required column: "Name"`)
		assert.NotContains(t, buf.String(), "❌")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeValidationCSV(&buf, "ratings.csv", valid))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"ratings.csv", "ratings", "true", "2", "Name|Rating", ""}, records[1])
	})

	t.Run("json file", func(t *testing.T) {
		withQuietStderr(t)
		path := filepath.Join(t.TempDir(), "report.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, WriteValidation("watched.csv", invalid, cfg))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"valid": false`)
	})
}
