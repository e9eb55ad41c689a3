// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/rankeval/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the rankeval MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Rankeval NDCG Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: compute_ndcg ---
	s.AddTool(mcp.NewTool("compute_ndcg",
		mcp.WithDescription("Score every strategy of one ranking file against one relevance CSV using tie-aware NDCG."),
		mcp.WithString("relevance_file", mcp.Description("Path to the relevance CSV (source,target,grade)."), mcp.Required()),
		mcp.WithString("ranking_file", mcp.Description("Path to the ranking file. Its name must follow scenario_variant_weight_penNN."), mcp.Required()),
		mcp.WithString("cutoffs", mcp.Description("Comma-separated cutoffs, e.g. '3,5,10'. Zero means the whole list.")),
	), h.handleComputeNDCG)

	// --- 2. Tool: parse_ranking ---
	s.AddTool(mcp.NewTool("parse_ranking",
		mcp.WithDescription("Parse a ranking file and summarize its strategy lists, ties and dropped lists."),
		mcp.WithString("path", mcp.Description("Path to the ranking file."), mcp.Required()),
		mcp.WithBoolean("keep_unclosed", mcp.Description("Commit a list that is still open at end of file instead of dropping it.")),
	), h.handleParseRanking)

	// --- 3. Tool: evaluate_directory ---
	s.AddTool(mcp.NewTool("evaluate_directory",
		mcp.WithDescription("Run the batch evaluation over a relevance directory and its candidate folders."),
		mcp.WithString("relevance_dir", mcp.Description("Directory of relevance CSV files."), mcp.Required()),
		mcp.WithString("candidate_root", mcp.Description("Root holding one candidate folder per relevance prefix (defaults to the configured root).")),
		mcp.WithString("cutoffs", mcp.Description("Comma-separated cutoffs, e.g. '3,5,10'.")),
	), h.handleEvaluateDirectory)

	return s
}

// StartMCPServer starts the rankeval MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
