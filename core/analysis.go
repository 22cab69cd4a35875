package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/bundlescope/core/provenance"
	"github.com/huangsam/bundlescope/core/rules"
	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/manifest"
	"github.com/huangsam/bundlescope/schema"
)

// analysisInputs holds the file contents one run works on.
type analysisInputs struct {
	bundle      string
	positionMap string // empty when absent or malformed
	manifest    *manifest.Manifest
	manifestRaw []byte
	install     string // manifest.InstallState of the project root
}

// loadInputs reads the bundle, position map and manifest named by cfg.
// Only an unreadable bundle is an error. The optional files degrade with a warning.
func loadInputs(cfg *contract.Config) (*analysisInputs, error) {
	if cfg.BundlePath == "" {
		return nil, errors.New("a bundle path is required")
	}
	data, err := os.ReadFile(cfg.BundlePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read bundle: %w", err)
	}
	in := &analysisInputs{bundle: string(data)}

	if cfg.MapPath != "" {
		raw, err := os.ReadFile(cfg.MapPath)
		switch {
		case err != nil:
			contract.LogWarn("Ignoring unreadable position map", err)
		default:
			if _, err := provenance.ParsePositionMap(string(raw)); err != nil {
				contract.LogWarn("Ignoring malformed position map", err)
			} else {
				in.positionMap = string(raw)
			}
		}
	}

	if cfg.ManifestPath != "" {
		raw, err := os.ReadFile(cfg.ManifestPath)
		if err != nil {
			contract.LogWarn("Ignoring unreadable manifest", err)
		} else if m, err := manifest.Parse(raw); err != nil {
			contract.LogWarn("Ignoring malformed manifest", err)
		} else {
			in.manifest = m
			in.manifestRaw = raw
		}
	}

	in.install = manifest.InstallState(in.manifest, cfg.ProjectRoot)
	return in, nil
}

// runAnalysisCore loads inputs, analyzes them (with caching) and records the run in history.
func runAnalysisCore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisReport, error) {
	in, err := loadInputs(cfg)
	if err != nil {
		return nil, err
	}

	if !shouldSuppressHeader(ctx) {
		contract.LogInfo(fmt.Sprintf("Analyzing %s (%d bytes)", cfg.BundlePath, len(in.bundle)))
	}

	// --- 0. Begin Run Tracking (if configured) ---
	startTime := time.Now()
	history := historyStore(mgr)
	if history != nil {
		configParams := map[string]any{
			"map_path":      cfg.MapPath,
			"manifest_path": cfg.ManifestPath,
			"project_root":  cfg.ProjectRoot,
			"no_cache":      cfg.NoCache,
		}
		runID, err := history.BeginRun(cfg.BundlePath, startTime, configParams)
		if err != nil {
			contract.LogWarn("History tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 1. Analysis (with caching) ---
	report, err := cachedReport(ctx, cfg, mgr, in)
	if err != nil {
		return nil, err
	}

	// --- 2. End Run Tracking ---
	if runID := runIDFromContext(ctx); history != nil && runID > 0 {
		recordRun(history, runID, report, startTime)
	}

	if len(report.Result.Modules) == 0 {
		contract.LogWarn("No modules found in bundle", nil)
	}
	return report, nil
}

// computeReport runs the pure analysis and the rule engine.
func computeReport(ctx context.Context, cfg *contract.Config, in *analysisInputs) (*schema.AnalysisReport, error) {
	var versions VersionFunc
	if in.manifest != nil {
		versions = func(names []string) map[string]string {
			return manifest.Versions(in.manifest, cfg.ProjectRoot, names)
		}
	}

	result, err := analyzeWithVersions(ctx, in.bundle, in.positionMap, versions)
	if err != nil {
		return nil, err
	}

	unused := manifest.Unused(in.manifest, result)
	return &schema.AnalysisReport{
		BundlePath:  cfg.BundlePath,
		AnalyzedAt:  time.Now().UTC(),
		Result:      result,
		Suggestions: rules.Suggest(rules.Input{Result: result, Unused: unused}),
		Unused:      unused,
	}, nil
}

// recordRun stores package rows and closes the run.
func recordRun(history contract.HistoryStore, runID int64, report *schema.AnalysisReport, startTime time.Time) {
	if err := history.RecordPackages(runID, report.AnalyzedAt, report.Result.Packages, report.Result.Duplicates); err != nil {
		contract.LogWarn("Failed to record package history", err)
	}
	summary := schema.Summarize(report.Result, startTime, time.Now())
	if err := history.EndRun(runID, summary); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}

func historyStore(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}
