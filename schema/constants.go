package schema

// Custom string types for type safety.
type (
	// Category represents the coarse provenance of a module.
	Category string

	// OutputMode represents the format of the output.
	OutputMode string

	// SegmentMode represents how the segmenter recovered module boundaries.
	SegmentMode string

	// Priority represents the urgency of an optimization suggestion.
	Priority string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All provenance categories.
const (
	FirstParty      Category = "first-party"
	ThirdParty      Category = "third-party"
	PlatformRuntime Category = "platform-runtime"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	XLSXOut    OutputMode = "xlsx"
	ParquetOut OutputMode = "parquet"
)

// All segmentation modes.
const (
	StructuralSegments SegmentMode = "structural" // every module head matched
	MixedSegments      SegmentMode = "mixed"      // some heads fell back to size-only
	SizeOnlySegments   SegmentMode = "size-only"  // no head matched, whole bundle degraded
	NoSegments         SegmentMode = "none"       // marker never found
)

// All suggestion priorities, highest first.
const (
	HighPriority   Priority = "high"
	MediumPriority Priority = "medium"
	LowPriority    Priority = "low"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // result cache only
	NoneBackend       DatabaseBackend = "none"
)

// AllCategories returns the categories in reporting order.
var AllCategories = []Category{FirstParty, ThirdParty, PlatformRuntime}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	XLSXOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid result cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Rank orders priorities so that high sorts first.
func (p Priority) Rank() int {
	switch p {
	case HighPriority:
		return 0
	case MediumPriority:
		return 1
	default:
		return 2
	}
}
