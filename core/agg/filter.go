package agg

import (
	"sort"
	"strings"

	"github.com/huangsam/bundlescope/schema"
)

// ModuleFilter narrows a module listing.
type ModuleFilter struct {
	Category   schema.Category // empty keeps every category
	PathPrefix string          // empty keeps every path
	Exclude    func(path string) bool
	Limit      int // 0 keeps every module
}

// TopModules returns the largest modules matching f, size descending then id ascending.
// The input slice is not modified.
func TopModules(modules []schema.ModuleRecord, f ModuleFilter) []schema.ModuleRecord {
	out := make([]schema.ModuleRecord, 0, len(modules))
	for _, m := range modules {
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		if f.PathPrefix != "" && !strings.HasPrefix(m.Path, f.PathPrefix) {
			continue
		}
		if f.Exclude != nil && f.Exclude(m.Path) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SizeBytes != out[j].SizeBytes {
			return out[i].SizeBytes > out[j].SizeBytes
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// TopPackages keeps packages at or above minShare percent, capped at limit.
// Packages are expected in the aggregate order already.
func TopPackages(packages []schema.PackageAggregate, minShare float64, limit int) []schema.PackageAggregate {
	out := make([]schema.PackageAggregate, 0, len(packages))
	for _, p := range packages {
		if p.PercentageOfBundle < minShare {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
