package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL is how long a cached report stays valid.
const cacheTTL = 7 * 24 * time.Hour

// cachedReport returns a cached report for the inputs or computes and stores a fresh one.
func cachedReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, in *analysisInputs) (*schema.AnalysisReport, error) {
	var store contract.CacheStore
	if mgr != nil && !cfg.NoCache {
		store = mgr.GetResultStore()
	}
	if store == nil {
		// Fallback to direct computation
		return computeReport(ctx, cfg, in)
	}

	key := generateCacheKey(cfg, in)

	// Check for cache hit
	if report := checkCacheHit(store, key); report != nil {
		contract.LogDebug("Result cache hit", "key", key[:12])
		report.FromCache = true
		return report, nil
	}

	// Cache miss: compute and store
	return computeAndStore(ctx, cfg, in, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached report
func checkCacheHit(store contract.CacheStore, key string) *schema.AnalysisReport {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}

	var report schema.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}

// computeAndStore computes the report and stores it in cache
func computeAndStore(ctx context.Context, cfg *contract.Config, in *analysisInputs, store contract.CacheStore, key string) (*schema.AnalysisReport, error) {
	report, err := computeReport(ctx, cfg, in)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to store analysis result", err)
		}
	}

	return report, nil
}

// generateCacheKey hashes everything that influences the report.
// The bundle path is included so reports keep the name they were run with.
func generateCacheKey(cfg *contract.Config, in *analysisInputs) string {
	h := sha256.New()
	for _, part := range []string{cfg.BundlePath, in.bundle, in.positionMap, string(in.manifestRaw), cfg.ProjectRoot, in.install} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
