// Package agg folds module records into package, duplicate and category rollups.
package agg

import (
	"sort"

	"github.com/huangsam/bundlescope/core/classify"
	"github.com/huangsam/bundlescope/schema"
)

// packageBucket accumulates one package while walking the module list.
type packageBucket struct {
	name      string
	size      int64
	members   []int
	locations map[string]struct{}
}

// Aggregate builds the analysis result for modules in emission order.
// versions maps package names to installed versions and may be nil.
// Zero modules yield an all-zero result with empty lists.
func Aggregate(modules []schema.ModuleRecord, versions map[string]string) schema.BundleAnalysisResult {
	result := schema.BundleAnalysisResult{
		Packages:   []schema.PackageAggregate{},
		Duplicates: []schema.DuplicatePackageFinding{},
		Modules:    make([]schema.ModuleEntry, 0, len(modules)),
	}

	// 1. Category totals and the path-keyed lookup in one pass
	buckets := make(map[string]*packageBucket)
	var order []string
	for _, m := range modules {
		addCategory(&result.Categories, classify.Categorize(m.Path), m.SizeBytes)
		result.TotalSize += m.SizeBytes
		result.Modules = append(result.Modules, schema.ModuleEntry{Path: m.Path, Module: m})

		name, ok := classify.ExtractPackageName(m.Path)
		if !ok {
			continue
		}
		b, seen := buckets[name]
		if !seen {
			b = &packageBucket{name: name, locations: make(map[string]struct{})}
			buckets[name] = b
			order = append(order, name)
		}
		b.size += m.SizeBytes
		b.members = append(b.members, m.ID)
		if loc, ok := classify.InstallLocation(m.Path); ok {
			b.locations[loc] = struct{}{}
		}
	}

	// 2. Package aggregates and duplicate findings
	for _, name := range order {
		b := buckets[name]
		result.Packages = append(result.Packages, schema.PackageAggregate{
			Name:               b.name,
			TotalSizeBytes:     b.size,
			PercentageOfBundle: schema.Percentage(b.size, result.TotalSize),
			MemberModules:      b.members,
			InstalledVersion:   versions[b.name],
		})
		if finding, ok := duplicateFinding(b); ok {
			result.Duplicates = append(result.Duplicates, finding)
		}
	}

	// 3. Deterministic ordering
	sortPackages(result.Packages)
	sortDuplicates(result.Duplicates)

	return result
}

func addCategory(totals *schema.CategoryTotals, cat schema.Category, size int64) {
	switch cat {
	case schema.PlatformRuntime:
		totals.PlatformRuntime += size
	case schema.ThirdParty:
		totals.ThirdParty += size
	default:
		totals.FirstParty += size
	}
}

// duplicateFinding reports a package seen under two or more install locations.
// One copy is assumed necessary and the rest wasted, split evenly.
func duplicateFinding(b *packageBucket) (schema.DuplicatePackageFinding, bool) {
	n := len(b.locations)
	if n < 2 {
		return schema.DuplicatePackageFinding{}, false
	}
	locations := make([]string, 0, n)
	for loc := range b.locations {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return schema.DuplicatePackageFinding{
		Name:                 b.name,
		InstallLocations:     locations,
		TotalSizeBytes:       b.size,
		EstimatedWastedBytes: float64(b.size) * float64(n-1) / float64(n),
	}, true
}

// sortPackages sorts by size descending, then name for ties.
func sortPackages(packages []schema.PackageAggregate) {
	sort.SliceStable(packages, func(i, j int) bool {
		if packages[i].TotalSizeBytes != packages[j].TotalSizeBytes {
			return packages[i].TotalSizeBytes > packages[j].TotalSizeBytes
		}
		return packages[i].Name < packages[j].Name
	})
}

// sortDuplicates sorts by waste descending, then name for ties.
func sortDuplicates(findings []schema.DuplicatePackageFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].EstimatedWastedBytes != findings[j].EstimatedWastedBytes {
			return findings[i].EstimatedWastedBytes > findings[j].EstimatedWastedBytes
		}
		return findings[i].Name < findings[j].Name
	})
}
