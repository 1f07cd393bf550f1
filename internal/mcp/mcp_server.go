// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/reelstats/core"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the reelstats MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Reelstats Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		memo:    core.NewMemo(mgr),
	}

	// --- 1. Tool: compute_analytics ---
	s.AddTool(mcp.NewTool("compute_analytics",
		mcp.WithDescription("Derive viewing statistics (ratings, genres, monthly activity, top watch dates) from a movie-watching export."),
		mcp.WithString("csv_text", mcp.Description("Raw export text with a header row. Takes precedence over path.")),
		mcp.WithString("path", mcp.Description("Path to an export file such as watched.csv or diary.csv.")),
		mcp.WithNumber("top", mcp.Description("Maximum number of top watch dates (defaults to 10).")),
		mcp.WithString("span", mcp.Description("How days tracking is measured."), mcp.Enum(string(schema.FileOrderSpan), string(schema.ChronologicalSpan))),
	), h.handleComputeAnalytics)

	// --- 2. Tool: detect_file_type ---
	s.AddTool(mcp.NewTool("detect_file_type",
		mcp.WithDescription("Classify an export file by its name (watched, ratings, diary or unknown)."),
		mcp.WithString("filename", mcp.Description("File name or path to classify."), mcp.Required()),
	), h.handleDetectFileType)

	// --- 3. Tool: validate_csv ---
	s.AddTool(mcp.NewTool("validate_csv",
		mcp.WithDescription("Check that an export has the columns and rows its file type requires."),
		mcp.WithString("csv_text", mcp.Description("Raw export text. Takes precedence over path.")),
		mcp.WithString("path", mcp.Description("Path to the export file. Its name selects the file type when file_type is omitted.")),
		mcp.WithString("file_type", mcp.Description("Expected file type."), mcp.Enum(string(schema.WatchedFile), string(schema.RatingsFile), string(schema.DiaryFile))),
	), h.handleValidateCSV)

	// --- 4. Tool: list_uploads ---
	s.AddTool(mcp.NewTool("list_uploads",
		mcp.WithDescription("List the export files held in the current upload session."),
	), h.handleListUploads)

	return s
}

// StartMCPServer starts the reelstats MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
