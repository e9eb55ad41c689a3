package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/rankeval/core"
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// evaluateResponse is the payload of evaluate_directory.
type evaluateResponse struct {
	Summary schema.BatchSummary   `json:"summary"`
	Results []schema.ResultRecord `json:"results"`
}

// collectSink keeps evaluated rows in memory for a single tool call.
type collectSink struct {
	rows []schema.EvaluationResult
}

var _ contract.ResultSink = &collectSink{} // Compile-time check

func (s *collectSink) WriteResults(rows []schema.EvaluationResult) error {
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *collectSink) Close() error { return nil }

// applyCutoffs overrides the configured cutoffs when the request carries any.
func applyCutoffs(cfg *contract.Config, request mcp.CallToolRequest) error {
	raw := request.GetString("cutoffs", "")
	if raw == "" {
		return nil
	}
	cutoffs, err := contract.ParseCutoffs(raw)
	if err != nil {
		return err
	}
	cfg.Cutoffs = cutoffs
	return nil
}

func (h *toolHandler) handleComputeNDCG(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	pair := schema.EvaluationPair{
		RelevanceFile: request.GetString("relevance_file", ""),
		RankingFile:   request.GetString("ranking_file", ""),
	}
	if pair.RelevanceFile == "" || pair.RankingFile == "" {
		return mcp.NewToolResultError("relevance_file and ranking_file are required"), nil
	}
	if err := applyCutoffs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cutoffs: %v", err)), nil
	}

	rows, _, err := core.EvaluatePair(cfg, pair)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(schema.EnrichResults(rows), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleParseRanking(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	opts := core.ParseOptions{KeepUnclosed: request.GetBool("keep_unclosed", h.baseCfg.KeepUnclosed)}

	result, err := core.InspectRankingFile(path, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEvaluateDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.ResolveRelevanceDir(cfg, request.GetString("relevance_dir", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if root := request.GetString("candidate_root", ""); root != "" {
		cfg.CandidateRoot = root
	}
	if err := applyCutoffs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cutoffs: %v", err)), nil
	}

	sink := &collectSink{}
	summary, err := core.GetEvaluateResults(core.WithSuppressHeader(ctx), cfg, h.mgr, sink)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(evaluateResponse{
		Summary: summary,
		Results: schema.EnrichResults(sink.rows),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
