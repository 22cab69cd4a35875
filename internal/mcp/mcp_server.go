// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Bundlescope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Bundlescope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := newToolHandler(baseCfg, mgr)

	bundleArg := mcp.WithString("bundle_path", mcp.Description("Path to the Metro bundle file."), mcp.Required())
	mapArg := mcp.WithString("map_path", mcp.Description("Optional JSON object mapping module ids to source paths."))
	manifestArg := mcp.WithString("manifest_path", mcp.Description("Optional package.json used for versions and unused dependencies."))
	limitArg := mcp.WithNumber("limit", mcp.Description("Limit the number of results returned."))

	// --- 1. Tool: analyze_bundle ---
	s.AddTool(mcp.NewTool("analyze_bundle",
		mcp.WithDescription("Attribute every module of a Metro bundle to a package and summarize sizes, duplicates and suggestions."),
		bundleArg, mapArg, manifestArg, limitArg,
	), h.handleAnalyzeBundle)

	// --- 2. Tool: list_modules ---
	s.AddTool(mcp.NewTool("list_modules",
		mcp.WithDescription("List the largest modules in a Metro bundle."),
		bundleArg, mapArg, limitArg,
		mcp.WithString("category", mcp.Description("Only list modules of this category."), mcp.Enum("first-party", "third-party", "platform-runtime")),
		mcp.WithString("path_prefix", mcp.Description("Only list modules whose path starts with this prefix.")),
	), h.handleListModules)

	// --- 3. Tool: list_packages ---
	s.AddTool(mcp.NewTool("list_packages",
		mcp.WithDescription("List third-party packages by their share of the bundle."),
		bundleArg, mapArg, manifestArg, limitArg,
		mcp.WithNumber("min_share", mcp.Description("Hide packages below this percentage of the bundle.")),
	), h.handleListPackages)

	// --- 4. Tool: find_duplicates ---
	s.AddTool(mcp.NewTool("find_duplicates",
		mcp.WithDescription("Find packages bundled from more than one install location."),
		bundleArg, mapArg, limitArg,
	), h.handleFindDuplicates)

	// --- 5. Tool: suggest ---
	s.AddTool(mcp.NewTool("suggest",
		mcp.WithDescription("Suggest ways to shrink the bundle, highest priority first."),
		bundleArg, mapArg, manifestArg,
	), h.handleSuggest)

	return s
}

// StartMCPServer starts the Bundlescope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
