package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/iocache"
	mcp_internal "github.com/huangsam/reelstats/internal/mcp"
	"github.com/huangsam/reelstats/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchedCSV = "Watched Date,Name,Year,Rating,Genres\n" +
	"2024-01-05,Heat,1995,4.5,\"Crime, Thriller\"\n" +
	"2024-01-05,Ronin,1998,4,Action\n" +
	"2024-02-10,Alien,1979,5,\"Horror, Science Fiction\"\n"

func baseConfig() *contract.Config {
	return &contract.Config{
		TopWatchDates:   schema.DefaultTopWatchDates,
		Span:            schema.FileOrderSpan,
		GenreSeparators: schema.DefaultGenreSeparators,
	}
}

func callTool(t *testing.T, name string, args map[string]any, mgr contract.CacheManager) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("compute_analytics missing input", func(t *testing.T) {
		res := callTool(t, "compute_analytics", map[string]any{}, nil)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "either csv_text or path is required")
	})

	t.Run("compute_analytics invalid top", func(t *testing.T) {
		res := callTool(t, "compute_analytics", map[string]any{
			"csv_text": watchedCSV,
			"top":      500.0,
		}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "top must be between 1 and 100")
	})

	t.Run("compute_analytics invalid span", func(t *testing.T) {
		res := callTool(t, "compute_analytics", map[string]any{
			"csv_text": watchedCSV,
			"span":     "weekly",
		}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), `invalid span "weekly"`)
	})

	t.Run("compute_analytics unreadable path", func(t *testing.T) {
		res := callTool(t, "compute_analytics", map[string]any{
			"path": filepath.Join(t.TempDir(), "missing.csv"),
		}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "failed to read")
	})

	t.Run("compute_analytics empty export", func(t *testing.T) {
		res := callTool(t, "compute_analytics", map[string]any{"csv_text": "   "}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "analysis failed: No CSV data provided")
	})

	t.Run("detect_file_type missing filename", func(t *testing.T) {
		res := callTool(t, "detect_file_type", map[string]any{}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "filename is required")
	})

	t.Run("validate_csv text without type", func(t *testing.T) {
		res := callTool(t, "validate_csv", map[string]any{"csv_text": watchedCSV}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "file_type is required")
	})

	t.Run("list_uploads without store", func(t *testing.T) {
		res := callTool(t, "list_uploads", map[string]any{}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "upload store is not configured")
	})
}

func TestComputeAnalyticsTool(t *testing.T) {
	res := callTool(t, "compute_analytics", map[string]any{
		"csv_text": watchedCSV,
		"top":      1.0,
		"span":     "chronological",
	}, nil)
	require.False(t, res.IsError, resultText(res))

	var got schema.Analytics
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, 3, got.TotalMovies)
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)
	assert.Equal(t, []schema.WatchDateCount{{Date: "2024-01-05", Count: 2}}, got.TopWatchDates)
	assert.Equal(t, 36, got.TotalDaysTracking)
	assert.Nil(t, got.Error)
}

func TestComputeAnalyticsToolFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.csv")
	require.NoError(t, os.WriteFile(path, []byte(watchedCSV), 0o644))

	res := callTool(t, "compute_analytics", map[string]any{"path": path}, nil)
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), `"totalMovies": 3`)
}

func TestDetectFileTypeTool(t *testing.T) {
	res := callTool(t, "detect_file_type", map[string]any{"filename": "exports/Diary.CSV"}, nil)
	require.False(t, res.IsError)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, "exports/Diary.CSV", got["filename"])
	assert.Equal(t, "diary", got["file_type"])
}

func TestValidateCSVTool(t *testing.T) {
	t.Run("valid text with explicit type", func(t *testing.T) {
		res := callTool(t, "validate_csv", map[string]any{
			"csv_text":  watchedCSV,
			"file_type": "watched",
		}, nil)
		require.False(t, res.IsError)

		var got schema.ValidationResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
		assert.True(t, got.Valid)
		assert.Equal(t, 3, got.RowCount)
	})

	t.Run("type detected from path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ratings.csv")
		require.NoError(t, os.WriteFile(path, []byte("Date,Title\n2024-01-01,Heat\n"), 0o644))

		res := callTool(t, "validate_csv", map[string]any{"path": path}, nil)
		require.False(t, res.IsError, "Invalid content is reported, not raised")

		var got schema.ValidationResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
		assert.Equal(t, schema.RatingsFile, got.FileType)
		assert.False(t, got.Valid)
		assert.NotEmpty(t, got.Errors)
	})
}

func TestListUploadsTool(t *testing.T) {
	store := iocache.NewMemoryUploadStore()
	_, err := store.AddFile("watched.csv", []byte(watchedCSV))
	require.NoError(t, err)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetUploadStore").Return(store)

	res := callTool(t, "list_uploads", map[string]any{}, mgr)
	require.False(t, res.IsError, resultText(res))

	var files []schema.UploadedFile
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "watched.csv", files[0].Name)
	assert.Equal(t, schema.WatchedFile, files[0].Type)
}
