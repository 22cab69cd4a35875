package core

import (
	"context"
	"time"

	"github.com/huangsam/bundlescope/core/agg"
	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/outwriter"
	"github.com/huangsam/bundlescope/schema"
)

// ExecutorFunc defines the function signature for executing different report views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteAnalyze runs the full analysis and prints the complete report.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	view := *report
	view.Result.Packages = agg.TopPackages(report.Result.Packages, cfg.MinShare, cfg.ResultLimit)
	return outwriter.PrintReport(&view, cfg, time.Since(start))
}

// ExecuteModules prints the largest modules matching the configured filters.
func ExecuteModules(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	modules, err := GetModuleResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintModules(modules, cfg, time.Since(start))
}

// ExecutePackages prints package aggregates above the configured share.
func ExecutePackages(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	packages, err := GetPackageResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintPackages(packages, cfg, time.Since(start))
}

// ExecuteDuplicates prints packages installed at more than one location.
func ExecuteDuplicates(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDuplicates(limitDuplicates(report.Result.Duplicates, cfg.ResultLimit), cfg, time.Since(start))
}

// ExecuteSuggest prints prioritized optimization suggestions.
func ExecuteSuggest(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSuggestions(report.Suggestions, cfg, time.Since(start))
}

// GetReport runs the analysis without printing anything.
func GetReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisReport, error) {
	return runAnalysisCore(ctx, cfg, mgr)
}

// GetModuleResults returns the filtered module listing without printing it.
func GetModuleResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ModuleRecord, error) {
	report, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	filter := agg.ModuleFilter{
		Category:   cfg.Category,
		PathPrefix: cfg.PathFilter,
		Limit:      cfg.ResultLimit,
	}
	if len(cfg.Excludes) > 0 {
		filter.Exclude = func(path string) bool { return contract.ShouldIgnore(path, cfg.Excludes) }
	}
	return agg.TopModules(report.Result.ModuleList(), filter), nil
}

// GetPackageResults returns the filtered package listing without printing it.
func GetPackageResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.PackageAggregate, error) {
	report, err := runAnalysisCore(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return agg.TopPackages(report.Result.Packages, cfg.MinShare, cfg.ResultLimit), nil
}

func limitDuplicates(findings []schema.DuplicatePackageFinding, limit int) []schema.DuplicatePackageFinding {
	if limit > 0 && len(findings) > limit {
		return findings[:limit]
	}
	return findings
}
