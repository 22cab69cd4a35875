// Package core has the bundle analysis pipeline and the command orchestration around it.
package core

import (
	"context"
	"sort"

	"github.com/huangsam/bundlescope/core/agg"
	"github.com/huangsam/bundlescope/core/classify"
	"github.com/huangsam/bundlescope/core/provenance"
	"github.com/huangsam/bundlescope/core/segment"
	"github.com/huangsam/bundlescope/schema"
)

// VersionFunc looks up installed versions for the given package names.
type VersionFunc func(names []string) map[string]string

// Analyze segments a bundle, attributes every module and aggregates the result.
// It never fails: unparseable bundles yield an empty result and a malformed
// position map is treated as absent.
func Analyze(bundleText, positionMapText string) schema.BundleAnalysisResult {
	result, _ := AnalyzeContext(context.Background(), bundleText, positionMapText)
	return result
}

// AnalyzeContext is Analyze with cancellation checked between whole modules.
// The only error it returns is ctx.Err().
func AnalyzeContext(ctx context.Context, bundleText, positionMapText string) (schema.BundleAnalysisResult, error) {
	return analyzeWithVersions(ctx, bundleText, positionMapText, nil)
}

// analyzeWithVersions runs the pipeline and fills in installed versions when versions is set.
func analyzeWithVersions(ctx context.Context, bundleText, positionMapText string, versions VersionFunc) (schema.BundleAnalysisResult, error) {
	pm := provenance.LoadPositionMap(positionMapText)

	segs, err := segment.SegmentContext(ctx, bundleText)
	if err != nil {
		return schema.BundleAnalysisResult{}, err
	}

	resolver := provenance.Resolver{Map: pm}
	modules := make([]schema.ModuleRecord, 0, len(segs.Chunks))
	for _, chunk := range segs.Chunks {
		if err := ctx.Err(); err != nil {
			return schema.BundleAnalysisResult{}, err
		}
		modules = append(modules, buildRecord(resolver, chunk))
	}

	var installed map[string]string
	if versions != nil {
		installed = versions(packageNames(modules))
	}

	result := agg.Aggregate(modules, installed)
	result.SegmentMode = segs.Mode
	result.UsedMap = pm != nil
	return result, nil
}

// buildRecord resolves and classifies one chunk.
func buildRecord(resolver provenance.Resolver, chunk segment.Chunk) schema.ModuleRecord {
	path := resolver.Resolve(chunk.Code, chunk.Index, chunk.DeclaredID)
	pkg, _ := classify.ExtractPackageName(path)
	return schema.ModuleRecord{
		ID:         chunk.DeclaredID,
		ChunkIndex: chunk.Index,
		Path:       path,
		SizeBytes:  chunk.Size(),
		Package:    pkg,
		Category:   classify.Categorize(path),
		Structural: chunk.Structural,
	}
}

// packageNames returns the distinct package names in sorted order.
func packageNames(modules []schema.ModuleRecord) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, m := range modules {
		if m.Package == "" {
			continue
		}
		if _, ok := seen[m.Package]; ok {
			continue
		}
		seen[m.Package] = struct{}{}
		names = append(names, m.Package)
	}
	sort.Strings(names)
	return names
}
