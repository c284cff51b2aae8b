// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// NewMCPServer initializes and configures the diffscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, loader contract.DocumentLoader) *server.MCPServer {
	s := server.NewMCPServer(
		"Diffscore Server",
		Version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  loader,
	}
	formats := mcp.Enum("auto", "json", "yaml")

	// --- 1. Tool: diff_score ---
	s.AddTool(mcp.NewTool("diff_score",
		mcp.WithDescription("Score how different two JSON or YAML documents are. 0 means identical, larger means more different."),
		mcp.WithString("left", mcp.Description("The reference document as JSON or YAML text."), mcp.Required()),
		mcp.WithString("right", mcp.Description("The document compared against the reference."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Encoding of both documents. Defaults to 'auto'."), formats),
		mcp.WithString("members", mcp.Description("Root member specs such as 'id:5:eq,notes:0'.")),
		mcp.WithBoolean("explain", mcp.Description("Include the per-member breakdown.")),
	), h.handleDiffScore)

	// --- 2. Tool: compare_files ---
	s.AddTool(mcp.NewTool("compare_files",
		mcp.WithDescription("Score how different two JSON or YAML files on disk are."),
		mcp.WithString("left_path", mcp.Description("Path to the reference document."), mcp.Required()),
		mcp.WithString("right_path", mcp.Description("Path to the compared document."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Encoding of both files. Defaults to detection by extension and content."), formats),
		mcp.WithString("members", mcp.Description("Root member specs such as 'id:5:eq,notes:0'.")),
		mcp.WithBoolean("explain", mcp.Description("Include the per-member breakdown.")),
	), h.handleCompareFiles)

	// --- 3. Tool: rank_candidates ---
	s.AddTool(mcp.NewTool("rank_candidates",
		mcp.WithDescription("Rank candidate documents by how closely they match a reference document, closest first."),
		mcp.WithString("reference", mcp.Description("The reference document as JSON or YAML text."), mcp.Required()),
		mcp.WithString("candidates", mcp.Description("A JSON or YAML array whose items are the candidate documents."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Encoding of the reference and candidates. Defaults to 'auto'."), formats),
		mcp.WithString("members", mcp.Description("Root member specs such as 'id:5:eq,notes:0'.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithBoolean("explain", mcp.Description("Include the per-member breakdown of every candidate.")),
	), h.handleRankCandidates)

	return s
}

// StartMCPServer starts the diffscore MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, loader contract.DocumentLoader) error {
	s := NewMCPServer(baseCfg, loader)
	return server.ServeStdio(s)
}
