// Package rules turns an analysis result into prioritized optimization suggestions.
package rules

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/bundlescope/schema"
)

const (
	// oversizedShare is the bundle share above which a package is worth lazy loading.
	oversizedShare = 10.0

	// thirdPartyShare is the dependency share above which the bundle is dependency heavy.
	thirdPartyShare = 60.0

	// heavyShare promotes a heavy-package hit to high priority.
	heavyShare = 5.0

	// largeWaste promotes a duplicate finding to high priority.
	largeWaste = 50 * 1024
)

// Input is what rules look at.
type Input struct {
	Result schema.BundleAnalysisResult
	Unused []string // declared dependencies never seen in the bundle
}

// Rule is one entry of the rule table.
type Rule struct {
	ID       string
	Evaluate func(Input) []schema.Suggestion
}

// Replacement is a package with a known lighter alternative.
type Replacement struct {
	Package      string
	Alternative  string
	SavingsRatio float64 // expected fraction of the package size saved
}

// HeavyPackages lists packages with well known lighter alternatives.
var HeavyPackages = []Replacement{
	{Package: "moment", Alternative: "dayjs or date-fns", SavingsRatio: 0.8},
	{Package: "lodash", Alternative: "lodash-es with per-method imports or native methods", SavingsRatio: 0.7},
	{Package: "axios", Alternative: "the built-in fetch API", SavingsRatio: 0.9},
	{Package: "underscore", Alternative: "native array and object methods", SavingsRatio: 0.9},
	{Package: "bluebird", Alternative: "native Promise", SavingsRatio: 1.0},
	{Package: "core-js", Alternative: "targeted polyfills for the runtime actually shipped", SavingsRatio: 0.5},
	{Package: "crypto-js", Alternative: "a native crypto module", SavingsRatio: 0.8},
}

// DefaultRules is the rule table used by Suggest.
var DefaultRules = []Rule{
	{ID: "heavy-package", Evaluate: heavyPackageRule},
	{ID: "duplicate-package", Evaluate: duplicateRule},
	{ID: "oversized-package", Evaluate: oversizedRule},
	{ID: "third-party-share", Evaluate: thirdPartyRule},
	{ID: "unused-dependency", Evaluate: unusedRule},
	{ID: "size-only-segmentation", Evaluate: segmentationRule},
}

// Suggest evaluates DefaultRules.
func Suggest(in Input) []schema.Suggestion {
	return Evaluate(DefaultRules, in)
}

// Evaluate runs every rule and sorts the combined output by priority, then
// estimated savings descending, then title.
func Evaluate(rules []Rule, in Input) []schema.Suggestion {
	out := []schema.Suggestion{}
	for _, r := range rules {
		for _, s := range r.Evaluate(in) {
			s.RuleID = r.ID
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		}
		if out[i].EstimatedSavings != out[j].EstimatedSavings {
			return out[i].EstimatedSavings > out[j].EstimatedSavings
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func heavyPackageRule(in Input) []schema.Suggestion {
	byName := make(map[string]schema.PackageAggregate, len(in.Result.Packages))
	for _, p := range in.Result.Packages {
		byName[p.Name] = p
	}
	var out []schema.Suggestion
	for _, h := range HeavyPackages {
		p, ok := byName[h.Package]
		if !ok {
			continue
		}
		priority := schema.MediumPriority
		if p.PercentageOfBundle >= heavyShare {
			priority = schema.HighPriority
		}
		out = append(out, schema.Suggestion{
			Priority:         priority,
			Title:            fmt.Sprintf("Replace %s", h.Package),
			Detail:           fmt.Sprintf("%s adds %s (%.1f%% of the bundle); consider %s.", h.Package, humanize.IBytes(uint64(p.TotalSizeBytes)), p.PercentageOfBundle, h.Alternative),
			Package:          h.Package,
			EstimatedSavings: int64(float64(p.TotalSizeBytes) * h.SavingsRatio),
		})
	}
	return out
}

func duplicateRule(in Input) []schema.Suggestion {
	var out []schema.Suggestion
	for _, d := range in.Result.Duplicates {
		priority := schema.MediumPriority
		if d.EstimatedWastedBytes >= largeWaste {
			priority = schema.HighPriority
		}
		out = append(out, schema.Suggestion{
			Priority:         priority,
			Title:            fmt.Sprintf("Deduplicate %s", d.Name),
			Detail:           fmt.Sprintf("%s is installed at %d locations (%s); align versions or add a resolution.", d.Name, len(d.InstallLocations), schema.FormatLocations(d.InstallLocations)),
			Package:          d.Name,
			EstimatedSavings: int64(d.EstimatedWastedBytes),
		})
	}
	return out
}

func oversizedRule(in Input) []schema.Suggestion {
	var out []schema.Suggestion
	for _, p := range in.Result.Packages {
		if p.PercentageOfBundle <= oversizedShare || p.Name == "react-native" {
			continue
		}
		out = append(out, schema.Suggestion{
			Priority: schema.MediumPriority,
			Title:    fmt.Sprintf("Lazy load %s", p.Name),
			Detail:   fmt.Sprintf("%s is %.1f%% of the bundle; load it on demand if it is not needed at startup.", p.Name, p.PercentageOfBundle),
			Package:  p.Name,
		})
	}
	return out
}

func thirdPartyRule(in Input) []schema.Suggestion {
	share := schema.Percentage(in.Result.Categories.ThirdParty, in.Result.TotalSize)
	if share <= thirdPartyShare {
		return nil
	}
	return []schema.Suggestion{{
		Priority: schema.LowPriority,
		Title:    "Review third-party dependencies",
		Detail:   fmt.Sprintf("Third-party code is %.1f%% of the bundle.", share),
	}}
}

func unusedRule(in Input) []schema.Suggestion {
	var out []schema.Suggestion
	for _, name := range in.Unused {
		out = append(out, schema.Suggestion{
			Priority: schema.MediumPriority,
			Title:    fmt.Sprintf("Remove unused dependency %s", name),
			Detail:   fmt.Sprintf("%s is declared in package.json but never appears in the bundle.", name),
			Package:  name,
		})
	}
	return out
}

func segmentationRule(in Input) []schema.Suggestion {
	if in.Result.SegmentMode != schema.SizeOnlySegments {
		return nil
	}
	return []schema.Suggestion{{
		Priority: schema.LowPriority,
		Title:    "Module boundaries are approximate",
		Detail:   "No module head matched the expected shape; sizes and paths are best-effort. Pass a source map for better attribution.",
	}}
}
