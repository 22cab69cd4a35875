// Package schema has models, enums and small helpers shared by all parts of bundlescope.
package schema

import "time"

// ModuleRecord is one emitted module unit of a bundle.
// Records are created once during parsing and never mutated afterwards.
type ModuleRecord struct {
	ID         int      `json:"id" yaml:"id"`                               // Declared module id (chunk index when undeclared)
	ChunkIndex int      `json:"chunk_index" yaml:"chunk_index"`             // Zero-based emission position
	Path       string   `json:"path" yaml:"path"`                           // Best-effort resolved source path
	SizeBytes  int64    `json:"size_bytes" yaml:"size_bytes"`               // UTF-8 length of the segmented code span
	Package    string   `json:"package,omitempty" yaml:"package,omitempty"` // Derived package name, empty for none
	Category   Category `json:"category" yaml:"category"`                   // first-party, third-party or platform-runtime
	Structural bool     `json:"structural" yaml:"structural"`               // False when recovered in size-only mode
}

// ModuleEntry is one key-value pair of the path-keyed module lookup.
// The lookup is serialized as a list because resolved paths can repeat.
type ModuleEntry struct {
	Path   string       `json:"key" yaml:"key"`
	Module ModuleRecord `json:"value" yaml:"value"`
}

// PackageAggregate is the rollup of all modules attributed to one package.
type PackageAggregate struct {
	Name               string  `json:"name" yaml:"name"`
	TotalSizeBytes     int64   `json:"total_size_bytes" yaml:"total_size_bytes"`
	PercentageOfBundle float64 `json:"percentage_of_bundle" yaml:"percentage_of_bundle"` // 0-100 against all module bytes
	MemberModules      []int   `json:"member_modules" yaml:"member_modules"`             // Module ids in emission order
	InstalledVersion   string  `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
}

// DuplicatePackageFinding is a package installed at more than one location.
type DuplicatePackageFinding struct {
	Name                 string   `json:"name" yaml:"name"`
	InstallLocations     []string `json:"install_locations" yaml:"install_locations"`
	TotalSizeBytes       int64    `json:"total_size_bytes" yaml:"total_size_bytes"`
	EstimatedWastedBytes float64  `json:"estimated_wasted_bytes" yaml:"estimated_wasted_bytes"`
}

// CategoryTotals holds the byte totals per provenance category.
type CategoryTotals struct {
	FirstParty      int64 `json:"first_party" yaml:"first_party"`
	ThirdParty      int64 `json:"third_party" yaml:"third_party"`
	PlatformRuntime int64 `json:"platform_runtime" yaml:"platform_runtime"`
}

// BundleAnalysisResult is the immutable snapshot produced by one analysis run.
type BundleAnalysisResult struct {
	TotalSize   int64                     `json:"total_size" yaml:"total_size"`
	Categories  CategoryTotals            `json:"categories" yaml:"categories"`
	Packages    []PackageAggregate        `json:"packages" yaml:"packages"`
	Duplicates  []DuplicatePackageFinding `json:"duplicates" yaml:"duplicates"`
	Modules     []ModuleEntry             `json:"modules" yaml:"modules"`
	SegmentMode SegmentMode               `json:"segment_mode" yaml:"segment_mode"`
	UsedMap     bool                      `json:"used_position_map" yaml:"used_position_map"`
}

// Suggestion is one prioritized optimization hint.
type Suggestion struct {
	RuleID           string   `json:"rule_id" yaml:"rule_id"`
	Priority         Priority `json:"priority" yaml:"priority"`
	Title            string   `json:"title" yaml:"title"`
	Detail           string   `json:"detail" yaml:"detail"`
	Package          string   `json:"package,omitempty" yaml:"package,omitempty"`
	EstimatedSavings int64    `json:"estimated_savings_bytes" yaml:"estimated_savings_bytes"`
}

// AnalysisReport is the full output of the analyze command.
type AnalysisReport struct {
	BundlePath  string               `json:"bundle_path" yaml:"bundle_path"`
	AnalyzedAt  time.Time            `json:"analyzed_at" yaml:"analyzed_at"`
	Result      BundleAnalysisResult `json:"result" yaml:"result"`
	Suggestions []Suggestion         `json:"suggestions" yaml:"suggestions"`
	Unused      []string             `json:"unused_dependencies" yaml:"unused_dependencies"`
	FromCache   bool                 `json:"-" yaml:"-"`
}

// ModuleList returns the modules in emission order.
func (r BundleAnalysisResult) ModuleList() []ModuleRecord {
	out := make([]ModuleRecord, len(r.Modules))
	for i, e := range r.Modules {
		out[i] = e.Module
	}
	return out
}

// ModulesByPath rebuilds the path-keyed lookup. Paths shared by several
// modules map to all of them in emission order.
func (r BundleAnalysisResult) ModulesByPath() map[string][]ModuleRecord {
	out := make(map[string][]ModuleRecord, len(r.Modules))
	for _, e := range r.Modules {
		out[e.Path] = append(out[e.Path], e.Module)
	}
	return out
}

// Total returns the byte total for a category.
func (c CategoryTotals) Total(cat Category) int64 {
	switch cat {
	case FirstParty:
		return c.FirstParty
	case ThirdParty:
		return c.ThirdParty
	case PlatformRuntime:
		return c.PlatformRuntime
	default:
		return 0
	}
}

// Sum returns the byte total across all categories.
func (c CategoryTotals) Sum() int64 {
	return c.FirstParty + c.ThirdParty + c.PlatformRuntime
}
