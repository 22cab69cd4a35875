package schema

// EnrichedPackage adds presentation data to a PackageAggregate.
type EnrichedPackage struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Label string `json:"label" yaml:"label"`
	PackageAggregate
}

// EnrichedModule adds presentation data to a ModuleRecord.
type EnrichedModule struct {
	Rank      int  `json:"rank" yaml:"rank"`
	Synthetic bool `json:"synthetic" yaml:"synthetic"`
	ModuleRecord
}

// GetPlainLabel returns a plain text label indicating how heavy a package is
// based on its share of the bundle.
func GetPlainLabel(share float64) string {
	switch {
	case share >= 20:
		return "Critical"
	case share >= 10:
		return "High"
	case share >= 5:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichPackages adds rank and label to a list of package aggregates.
func EnrichPackages(packages []PackageAggregate) []EnrichedPackage {
	output := make([]EnrichedPackage, len(packages))
	for i, p := range packages {
		output[i] = EnrichedPackage{
			Rank:             i + 1,
			Label:            GetPlainLabel(p.PercentageOfBundle),
			PackageAggregate: p,
		}
	}
	return output
}

// EnrichModules adds rank and the placeholder flag to a list of modules.
// The synthetic check is injected so schema stays free of resolver imports.
func EnrichModules(modules []ModuleRecord, isSynthetic func(string) bool) []EnrichedModule {
	output := make([]EnrichedModule, len(modules))
	for i, m := range modules {
		output[i] = EnrichedModule{
			Rank:         i + 1,
			Synthetic:    isSynthetic != nil && isSynthetic(m.Path),
			ModuleRecord: m,
		}
	}
	return output
}
