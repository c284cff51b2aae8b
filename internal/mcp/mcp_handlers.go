package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/internal/runner"
	"github.com/huangsam/diffscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	loader  contract.DocumentLoader
}

// requestConfig clones the base config and applies the per-call overrides.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if f := request.GetString("format", ""); f != "" {
		format := schema.InputFormat(strings.ToLower(f))
		if _, ok := schema.ValidInputFormats[format]; !ok {
			return nil, schema.NewConfigurationError("format", "invalid input format '%s'. must be auto, json, yaml", f)
		}
		cfg.Format = format
	}
	if m := request.GetString("members", ""); m != "" {
		parsed, err := contract.ParseMembersString(m)
		if err != nil {
			return nil, err
		}
		members := make(map[string]schema.MemberSpec, len(cfg.Members)+len(parsed))
		maps.Copy(members, cfg.Members)
		maps.Copy(members, parsed)
		cfg.Members = members
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	cfg.Explain = request.GetBool("explain", cfg.Explain)
	return cfg, nil
}

func (h *toolHandler) handleDiffScore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	scorer, err := runner.NewTreeScorer(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	left, err := h.loader.Decode([]byte(request.GetString("left", "")), cfg.Format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid left document: %v", err)), nil
	}
	right, err := h.loader.Decode([]byte(request.GetString("right", "")), cfg.Format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid right document: %v", err)), nil
	}

	result := runner.ScoreDocuments(scorer, cfg.Explain,
		runner.Document{Name: "left", Value: left},
		runner.Document{Name: "right", Value: right})
	return jsonResult(result)
}

func (h *toolHandler) handleCompareFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	leftPath := request.GetString("left_path", "")
	rightPath := request.GetString("right_path", "")
	if leftPath == "" || rightPath == "" {
		return mcp.NewToolResultError("left_path and right_path are required"), nil
	}

	result, err := runner.ExecuteCompare(ctx, cfg, h.loader, leftPath, rightPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleRankCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	scorer, err := runner.NewTreeScorer(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	ref, err := h.loader.Decode([]byte(request.GetString("reference", "")), cfg.Format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid reference document: %v", err)), nil
	}
	decoded, err := h.loader.Decode([]byte(request.GetString("candidates", "")), cfg.Format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid candidates: %v", err)), nil
	}
	items, ok := decoded.([]any)
	if !ok {
		return mcp.NewToolResultError("candidates must be an array of documents"), nil
	}

	candidates := make([]runner.Document, len(items))
	for i, item := range items {
		candidates[i] = runner.Document{Name: strconv.Itoa(i), Value: item}
	}
	ranked, err := runner.RankDocuments(ctx, cfg, scorer, runner.Document{Name: "reference", Value: ref}, candidates)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(ranked)
}

// jsonResult renders v as indented JSON text for the client.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
