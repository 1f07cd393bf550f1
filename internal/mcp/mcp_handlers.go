package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/reelstats/core"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	memo    *core.Memo
}

// fileTypeReport is the response of detect_file_type.
type fileTypeReport struct {
	Filename string          `json:"filename"`
	FileType schema.FileType `json:"file_type"`
}

// readSource returns csv_text when given, else the contents of path.
func readSource(request mcp.CallToolRequest) (text, path string, err error) {
	text = request.GetString("csv_text", "")
	path = request.GetString("path", "")
	if text != "" {
		return text, path, nil
	}
	if path == "" {
		return "", "", errors.New("either csv_text or path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", path, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), path, nil
}

// jsonResult encodes v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleComputeAnalytics(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _, err := readSource(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := h.baseCfg.AnalyticsOptions()
	if top := request.GetInt("top", 0); top != 0 {
		if top < 1 || top > contract.MaxTopWatchDates {
			return mcp.NewToolResultError(fmt.Sprintf("top must be between 1 and %d", contract.MaxTopWatchDates)), nil
		}
		opts.TopWatchDates = top
	}
	if span := schema.SpanMode(request.GetString("span", "")); span != "" {
		if _, ok := schema.ValidSpanModes[span]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid span %q", span)), nil
		}
		opts.Span = span
	}

	result := h.memo.Compute(raw, opts)
	if result.Failed() {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %s", result.ErrorMessage())), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleDetectFileType(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("filename")
	if err != nil || name == "" {
		return mcp.NewToolResultError("filename is required"), nil
	}
	return jsonResult(fileTypeReport{Filename: name, FileType: ingest.DetectFileType(name)}), nil
}

func (h *toolHandler) handleValidateCSV(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, path, err := readSource(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fileType := schema.FileType(request.GetString("file_type", ""))
	if fileType == "" {
		if path == "" {
			return mcp.NewToolResultError("file_type is required when only csv_text is given"), nil
		}
		fileType = ingest.DetectFileType(filepath.Base(path))
	}

	result := ingest.ValidateText(fileType, text, ingest.Options{Delimiter: h.baseCfg.Delimiter})
	return jsonResult(result), nil
}

func (h *toolHandler) handleListUploads(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetUploadStore() == nil {
		return mcp.NewToolResultError("upload store is not configured"), nil
	}
	files, err := h.mgr.GetUploadStore().ListFiles()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list uploads: %v", err)), nil
	}
	return jsonResult(files), nil
}
