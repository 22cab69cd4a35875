package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/bundlescope/core"
	"github.com/huangsam/bundlescope/core/agg"
	"github.com/huangsam/bundlescope/core/provenance"
	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// memoSize bounds how many tool responses are kept in memory.
const memoSize = 128

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	memo    *lru.Cache[string, string]
}

func newToolHandler(baseCfg *contract.Config, mgr contract.CacheManager) *toolHandler {
	memo, _ := lru.New[string, string](memoSize) // only fails for a non-positive size
	return &toolHandler{baseCfg: baseCfg, mgr: mgr, memo: memo}
}

// configFor clones the base config and applies the arguments every tool shares.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.BundlePath = strings.TrimSpace(request.GetString("bundle_path", ""))
	if cfg.BundlePath == "" {
		return nil, fmt.Errorf("bundle_path is required")
	}
	if p := request.GetString("map_path", ""); p != "" {
		cfg.MapPath = p
	}
	if p := request.GetString("manifest_path", ""); p != "" {
		cfg.ManifestPath = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	return cfg, nil
}

// memoKey identifies a response by tool, arguments and the input files' size and mtime.
func memoKey(tool string, cfg *contract.Config, extra ...string) string {
	parts := []string{tool}
	for _, path := range []string{cfg.BundlePath, cfg.MapPath, cfg.ManifestPath} {
		parts = append(parts, path)
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil {
			parts = append(parts, fmt.Sprintf("%d@%d", info.Size(), info.ModTime().UnixNano()))
		}
	}
	parts = append(parts, fmt.Sprint(cfg.ResultLimit))
	parts = append(parts, extra...)
	return strings.Join(parts, "\x00")
}

// respond runs compute once per memo key and returns its JSON as text.
func (h *toolHandler) respond(key string, compute func() (any, error)) (*mcp.CallToolResult, error) {
	if text, ok := h.memo.Get(key); ok {
		return mcp.NewToolResultText(text), nil
	}
	data, err := compute()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	text := string(jsonData)
	h.memo.Add(key, text)
	return mcp.NewToolResultText(text), nil
}

func (h *toolHandler) handleAnalyzeBundle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return h.respond(memoKey("analyze_bundle", cfg), func() (any, error) {
		report, err := core.GetReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
		if err != nil {
			return nil, err
		}
		view := *report
		view.Result.Packages = agg.TopPackages(report.Result.Packages, cfg.MinShare, cfg.ResultLimit)
		return view, nil
	})
}

func (h *toolHandler) handleListModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if c := request.GetString("category", ""); c != "" {
		cfg.Category = schema.Category(c)
		if !isCategory(cfg.Category) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid category %q", c)), nil
		}
	}
	if p := request.GetString("path_prefix", ""); p != "" {
		cfg.PathFilter = p
	}

	return h.respond(memoKey("list_modules", cfg, string(cfg.Category), cfg.PathFilter), func() (any, error) {
		modules, err := core.GetModuleResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
		if err != nil {
			return nil, err
		}
		return schema.EnrichModules(modules, provenance.IsSynthetic), nil
	})
}

func (h *toolHandler) handleListPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.MinShare = request.GetFloat("min_share", cfg.MinShare)
	if cfg.MinShare < 0 || cfg.MinShare > 100 {
		return mcp.NewToolResultError("min_share must be between 0 and 100"), nil
	}

	return h.respond(memoKey("list_packages", cfg, fmt.Sprint(cfg.MinShare)), func() (any, error) {
		packages, err := core.GetPackageResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
		if err != nil {
			return nil, err
		}
		return schema.EnrichPackages(packages), nil
	})
}

func (h *toolHandler) handleFindDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return h.respond(memoKey("find_duplicates", cfg), func() (any, error) {
		report, err := core.GetReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
		if err != nil {
			return nil, err
		}
		findings := report.Result.Duplicates
		if cfg.ResultLimit > 0 && len(findings) > cfg.ResultLimit {
			findings = findings[:cfg.ResultLimit]
		}
		return findings, nil
	})
}

func (h *toolHandler) handleSuggest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return h.respond(memoKey("suggest", cfg), func() (any, error) {
		report, err := core.GetReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
		if err != nil {
			return nil, err
		}
		return report.Suggestions, nil
	})
}

func isCategory(c schema.Category) bool {
	for _, known := range schema.AllCategories {
		if c == known {
			return true
		}
	}
	return false
}
